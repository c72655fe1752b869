package summarizer

import (
	"strings"
)

// DefaultBudget is the byte budget used for the prompt payload.
const DefaultBudget = 400

const (
	payloadHead  = `{"files":[`
	payloadTail  = `]}`
	emptyPayload = payloadHead + payloadTail
)

// fidelityLimits are the descriptor truncation levels, most detailed first.
// Zero keeps the descriptor whole.
var fidelityLimits = [...]int{0, 12, 6, 3, 1}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// Compress serializes changes as {"files":[{"f":..,"c":..},...]} in at most
// maxLen bytes. Descriptors are shortened first, then trailing files are
// dropped. When even a single file does not fit, the payload is reduced to
// the first file's base name with a "mod" descriptor, which may exceed
// maxLen.
func Compress(changes []FileChange, maxLen int) string {
	if len(changes) == 0 {
		return emptyPayload
	}

	items := make([]string, len(changes))
	for _, limit := range fidelityLimits {
		for i, fc := range changes {
			items[i] = encodeItem(fc.File, truncate(fc.Change, limit))
		}
		if keep := fittingPrefix(items, maxLen); keep > 0 {
			return join(items[:keep])
		}
	}

	return join([]string{encodeItem(baseName(changes[0].File), ChangeModified)})
}

// fittingPrefix returns the largest count of leading items whose payload fits
// in maxLen bytes, or zero when none does.
func fittingPrefix(items []string, maxLen int) int {
	size := len(payloadHead) + len(payloadTail)
	sizes := make([]int, len(items)+1)
	for i, item := range items {
		if i > 0 {
			size++
		}
		size += len(item)
		sizes[i+1] = size
	}
	for keep := len(items); keep >= 1; keep-- {
		if sizes[keep] <= maxLen {
			return keep
		}
	}
	return 0
}

func encodeItem(file, change string) string {
	return `{"f":"` + escaper.Replace(file) + `","c":"` + escaper.Replace(change) + `"}`
}

func join(items []string) string {
	return payloadHead + strings.Join(items, ",") + payloadTail
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
