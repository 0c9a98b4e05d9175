package theme

// Seasonal theme: PAGER_THEME=halloween. Sentiment colours stay on the
// defaults; only the deck listing changes.
func init() {
	MustRegister(&Theme{
		Name:      "halloween",
		Primary:   0xEB6123, // Pumpkin
		DeckList:  0xEB6123,
		DeckEmpty: 0x6B3FA0, // Purple
	})
}
