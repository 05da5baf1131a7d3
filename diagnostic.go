package lossy

// extractPath returns the most precise location for a decode failure. A
// missing key points at the key itself; other structured errors carry the
// failing value's path. Errors from outside the framework fall back to the
// cursor that was being decoded.
func extractPath(err error, c *Cursor) Path {
	de, ok := AsDecodeError(err)
	if !ok {
		return c.Path()
	}
	switch de.Kind {
	case KindKeyNotFound:
		return de.FullPath()
	case KindValueNotFound, KindTypeMismatch, KindDataCorrupted:
		return de.Path
	}
	return c.Path()
}
