package hierarchy

import (
	"strings"

	"github.com/ppiankov/dartxbrl/internal/model"
)

var abstractSuffixes = []string{"[개요]", "[abstract]"}

// top-level vocabulary: any segment starting with the prefix collapses to it
var topLevel = []string{"자산", "부채", "자본", "Assets", "Liabilities", "Equity"}

// normalizeClass strips abstract markers, maps top-level segments to the
// canonical vocabulary and collapses consecutive duplicates. The concept
// id path shifts with the labels so class<n> and class<n>_id stay paired.
func normalizeClass(path, ids [model.ClassLevels]string) ([model.ClassLevels]string, [model.ClassLevels]string) {
	var segs, segIDs []string
	for i, seg := range path {
		seg = stripAbstract(seg)
		if seg == "" {
			continue
		}
		if i == 0 {
			seg = canonicalTop(seg)
		}
		if n := len(segs); n > 0 && segs[n-1] == seg {
			continue
		}
		segs = append(segs, seg)
		segIDs = append(segIDs, ids[i])
	}

	var out, outIDs [model.ClassLevels]string
	copy(out[:], segs)
	copy(outIDs[:], segIDs)
	return out, outIDs
}

func stripAbstract(seg string) string {
	seg = strings.TrimSpace(seg)
	for _, suffix := range abstractSuffixes {
		if len(seg) >= len(suffix) && strings.EqualFold(seg[len(seg)-len(suffix):], suffix) {
			seg = strings.TrimSpace(seg[:len(seg)-len(suffix)])
		}
	}
	return seg
}

func canonicalTop(seg string) string {
	for _, top := range topLevel {
		if strings.HasPrefix(seg, top) {
			return top
		}
	}
	return seg
}
