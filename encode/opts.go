package encode

type EncodeOption func(*EncState)

// EncodeColors colors output for terminals.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeEscapeNewlines writes newlines in strings as \n instead of raw.
func EncodeEscapeNewlines(v bool) EncodeOption {
	return func(es *EncState) { es.escapeNL = v }
}
