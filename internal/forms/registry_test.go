package forms_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/potools/pluralform/internal/forms"
)

func TestForLanguage(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		tag      string
		nplurals int
		indexes  map[int64]int
	}{
		{
			tag:      "en",
			nplurals: 2,
			indexes:  map[int64]int{0: 1, 1: 0, 5: 1},
		},
		{
			tag:      "fr",
			nplurals: 2,
			indexes:  map[int64]int{0: 0, 1: 0, 2: 1},
		},
		{
			tag:      "ja",
			nplurals: 1,
			indexes:  map[int64]int{0: 0, 1: 0, 100: 0},
		},
		{
			tag:      "ru",
			nplurals: 3,
			indexes:  map[int64]int{1: 0, 2: 1, 5: 2, 11: 2, 21: 0, 114: 2},
		},
		{
			tag:      "pl",
			nplurals: 3,
			indexes:  map[int64]int{1: 0, 2: 1, 5: 2, 22: 1, 112: 2},
		},
		{
			tag:      "cs",
			nplurals: 3,
			indexes:  map[int64]int{1: 0, 2: 1, 4: 1, 5: 2},
		},
		{
			tag:      "ar",
			nplurals: 6,
			indexes:  map[int64]int{0: 0, 1: 1, 2: 2, 3: 3, 11: 4, 100: 5},
		},
		{
			tag:      "ga",
			nplurals: 5,
			indexes:  map[int64]int{1: 0, 2: 1, 3: 2, 7: 3, 11: 4},
		},
		{
			// exact language-territory match
			tag:      "pt_BR",
			nplurals: 2,
			indexes:  map[int64]int{1: 0, 2: 1},
		},
		{
			// territory falls back to the bare language
			tag:      "ru_RU",
			nplurals: 3,
			indexes:  map[int64]int{1: 0, 2: 1, 5: 2},
		},
		{
			// encoding suffix is ignored
			tag:      "de_DE.UTF-8",
			nplurals: 2,
			indexes:  map[int64]int{1: 0, 2: 1},
		},
	} {
		tt := tt
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()

			pf, ok := forms.ForLanguage(tt.tag)
			if !ok {
				t.Fatalf("no plural rule for %q", tt.tag)
			}

			if pf.NPlurals() != tt.nplurals {
				t.Errorf("NPlurals: expect to %d but got %d", tt.nplurals, pf.NPlurals())
			}

			got := map[int64]int{}
			for n := range tt.indexes {
				index, err := pf.Index(n)
				if err != nil {
					t.Fatalf("Index(%d): %v", n, err)
				}
				got[n] = index
			}
			if diff := cmp.Diff(tt.indexes, got); diff != "" {
				t.Errorf("indexes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestForLanguageUnknown(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"", "xx", "xx_YY", "123"} {
		if _, ok := forms.ForLanguage(tag); ok {
			t.Errorf("ForLanguage(%q): should not be found", tag)
		}
	}
}
