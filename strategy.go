package lossy

import "strconv"

// Loss messages recorded by the resilient wrappers.
const (
	MsgRequiredFailed   = "Failed to decode required value"
	MsgDroppedElement   = "Dropped invalid array element at Index "
	MsgOptionalArrayNil = "Expected array but found incompatible value; set optional array to nil"
	MsgOptionalValueNil = "Set optional to nil due to invalid value"
)

// reportLoss records one loss for the value under c. The raw text and the
// path are best effort; reporting never fails.
func reportLoss(c *Cursor, msg string, err error) {
	raw, ok := c.Raw()
	c.sess.report(Loss{
		Raw:     raw,
		HasRaw:  ok,
		Path:    extractPath(err, c),
		Message: msg,
		Err:     err,
	})
}

// decodeScalar decodes a required value. Failures are reported and returned
// unchanged.
func decodeScalar[T any](c *Cursor, dst *T) error {
	var v T
	if err := c.SingleValue().Decode(&v); err != nil {
		reportLoss(c, MsgRequiredFailed, err)
		return err
	}
	*dst = v
	return nil
}

// decodeSequence decodes every element it can and drops the rest. Only a
// value that is not a sequence at all is an error.
func decodeSequence[T any](c *Cursor) ([]T, error) {
	seq, err := c.Sequence()
	if err != nil {
		reportLoss(c, MsgRequiredFailed, err)
		return nil, err
	}
	return decodeElements[T](seq), nil
}

// decodeOptional resolves to absent on null or on any decode failure.
func decodeOptional[T any](c *Cursor) (T, bool) {
	var zero T
	sv := c.SingleValue()
	if sv.IsNull() {
		return zero, false
	}
	var v T
	if err := sv.Decode(&v); err != nil {
		reportLoss(c, MsgOptionalValueNil, err)
		return zero, false
	}
	return v, true
}

// decodeOptionalSequence delegates to the sequence strategy and resolves to
// absent when the value cannot be read as a sequence.
func decodeOptionalSequence[T any](c *Cursor) ([]T, bool) {
	if c.SingleValue().IsNull() {
		return nil, false
	}
	seq, err := c.Sequence()
	if err != nil {
		reportLoss(c, MsgOptionalArrayNil, err)
		return nil, false
	}
	return decodeElements[T](seq), true
}

// decodeElements keeps the elements that decode and reports each one that
// does not, by its zero-based index.
func decodeElements[T any](seq *SequenceCursor) []T {
	out := make([]T, 0, seq.Len())
	for !seq.AtEnd() {
		i := seq.Index()
		var v T
		if err := seq.Decode(&v); err != nil {
			reportLoss(seq.Element(), MsgDroppedElement+strconv.Itoa(i), err)
			seq.Advance()
			continue
		}
		out = append(out, v)
	}
	return out
}
