// Package textutil provides the string helpers shared by the resolver and the
// identity matcher.
//
// Similarity is the matching-blocks ratio (2*M/T) computed over runes, so a
// single misread ideograph in a four-character name scores 0.75. Rune
// filters keep only the classes of characters the recognizer is trusted to
// produce for a given field.
package textutil
