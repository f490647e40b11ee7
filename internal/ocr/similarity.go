package ocr

import (
	"strings"
	"unicode"
)

// MinTypeSimilarity is the score a misread word needs to be accepted as a
// transaction type.
const MinTypeSimilarity = 0.7

// TextSimilarity scores how close detected is to truth, from 0.0 (no match)
// to 1.0 (identical after normalization). It blends the longest common
// subsequence with plain character overlap, which tolerates the single
// letter swaps handwriting recognition typically makes.
func TextSimilarity(detected, truth string) float64 {
	d := normalizeText(detected)
	t := normalizeText(truth)
	if d == "" || t == "" {
		return 0
	}
	if d == t {
		return 1
	}
	lcs := float64(longestCommonSubsequence(d, t)) / float64(max(len(d), len(t)))
	return 0.6*lcs + 0.4*characterOverlap(d, t)
}

// closestType returns the transaction type word is most similar to.
func closestType(word string) (string, float64) {
	best, bestScore := "", 0.0
	for _, t := range TransactionTypes {
		if s := TextSimilarity(word, t); s > bestScore {
			best, bestScore = t, s
		}
	}
	return best, bestScore
}

// normalizeText upper-cases s and keeps letters and digits only.
func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func longestCommonSubsequence(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// characterOverlap is the fraction of truth characters found in detected,
// each detected character counted once.
func characterOverlap(detected, truth string) float64 {
	if len(truth) == 0 {
		return 0
	}
	avail := make(map[rune]int)
	for _, r := range detected {
		avail[r]++
	}
	matched := 0
	for _, r := range truth {
		if avail[r] > 0 {
			matched++
			avail[r]--
		}
	}
	return float64(matched) / float64(len([]rune(truth)))
}
