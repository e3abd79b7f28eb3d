package atlas

import "github.com/gogpu/textplane"

// Classify returns the render mode for a single code point: Emoji for
// characters that default to emoji presentation, Text otherwise.
func Classify(r rune) textplane.VertexType {
	if IsEmojiPresentation(r) {
		return textplane.VertexTypeEmoji
	}
	return textplane.VertexTypeText
}

// ClassifyCluster returns the render mode for a grapheme cluster, honoring
// variation selectors: U+FE0F turns a text-default symbol into an emoji and
// U+FE0E forces text presentation.
func ClassifyCluster(cluster []rune) textplane.VertexType {
	if len(cluster) == 0 {
		return textplane.VertexTypeText
	}
	base := cluster[0]
	for _, r := range cluster[1:] {
		switch r {
		case 0xFE0E:
			return textplane.VertexTypeText
		case 0xFE0F:
			if IsEmojiPresentation(base) || isTextDefaultEmoji(base) {
				return textplane.VertexTypeEmoji
			}
		}
	}
	return Classify(base)
}

// IsEmoji reports whether r can be displayed as emoji, with or without a
// variation selector.
func IsEmoji(r rune) bool {
	return IsEmojiPresentation(r) || isTextDefaultEmoji(r)
}

// IsRegionalIndicator reports whether r is a flag letter (U+1F1E6..U+1F1FF).
func IsRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

// IsEmojiModifier reports whether r is a Fitzpatrick skin tone modifier.
func IsEmojiModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

// IsEmojiPresentation reports whether r displays as emoji without a
// variation selector.
func IsEmojiPresentation(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // misc symbols and pictographs
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1FAFF: // supplemental, extended-A/B
		return true
	case IsRegionalIndicator(r), IsEmojiModifier(r):
		return true
	case r >= 0x1F000 && r <= 0x1F02F: // mahjong
		return true
	case r >= 0x1F0A0 && r <= 0x1F0FF: // playing cards
		return true
	case r == 0x231A || r == 0x231B || r == 0x23F0 || r == 0x23F3:
		return true
	case r == 0x2614 || r == 0x2615 || r == 0x26A1 || r == 0x26BD || r == 0x26BE:
		return true
	case r == 0x2705 || r == 0x270A || r == 0x270B || r == 0x2728 || r == 0x274C:
		return true
	case r == 0x2B50 || r == 0x2B55:
		return true
	}
	return false
}

// isTextDefaultEmoji reports symbols that render as text unless followed by
// U+FE0F.
func isTextDefaultEmoji(r rune) bool {
	switch {
	case r >= 0x2600 && r <= 0x26FF: // misc symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	case r >= 0x2194 && r <= 0x2199, r == 0x21A9, r == 0x21AA:
		return true
	case r == 0x00A9 || r == 0x00AE || r == 0x2122 || r == 0x2139:
		return true
	case r == 0x203C || r == 0x2049 || r == 0x24C2:
		return true
	case r >= 0x2B05 && r <= 0x2B07, r == 0x2B1B, r == 0x2B1C:
		return true
	case r == 0x3030 || r == 0x303D || r == 0x3297 || r == 0x3299:
		return true
	}
	return false
}
