// Package slug строит URL-идентификаторы из заголовков.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	disallowed = regexp.MustCompile(`[^\w\s-]`)
	separators = regexp.MustCompile(`[\s_-]+`)
)

// Make переводит заголовок в slug: нижний регистр, только [a-z0-9_],
// пробелы и дефисы, серии разделителей схлопываются в один дефис.
// Уникальность не гарантируется.
func Make(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = disallowed.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// WithSuffix возвращает вариант slug для n-й попытки разрешить коллизию.
func WithSuffix(base string, n int) string {
	if n < 2 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// MaxProbes ограничивает число вариантов, которые перебирает Unique.
const MaxProbes = 50

// ErrExhausted возвращается, когда все MaxProbes вариантов заняты.
var ErrExhausted = errors.New("slug: no free variant")

// Unique возвращает первый свободный вариант base: base, base-2, base-3...
// exists сообщает, занят ли вариант.
func Unique(ctx context.Context, base string, exists func(ctx context.Context, slug string) (bool, error)) (string, error) {
	for n := 1; n <= MaxProbes; n++ {
		candidate := WithSuffix(base, n)

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %q after %d attempts", ErrExhausted, base, MaxProbes)
}
