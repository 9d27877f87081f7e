package util

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

var scoreExtensions = []string{".yml", ".yaml", ".json", ".mid", ".midi"}

func IsScorePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range scoreExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// GatherScorePaths walks path and returns every score file under it, sorted.
// A maxNum of 0 means no limit.
func GatherScorePaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error walking %s: %w", s, err)
		}
		if !d.IsDir() && IsScorePath(s) {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	sort.Strings(res)
	return res, nil
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Abs[A constraints.Signed | constraints.Float](num A) A {
	if num < 0 {
		return -num
	}
	return num
}

func Sum[A constraints.Integer | constraints.Float](nums []A) A {
	var total A
	for _, v := range nums {
		total += v
	}
	return total
}
