package lang

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

// Cache tests are not parallel: ClearCache affects every cached tree.

func TestParseCache(t *testing.T) {
	ClearCache()

	src := "let cached = 1 + 2;"

	f1, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	f2, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	if f1 != f2 {
		t.Error("parsing the same source twice returned different trees")
	}

	f3, err := Parse(t.Context(), src, WithMaxDepth(8))
	if err != nil {
		t.Fatal(err)
	}

	if f3 == f1 {
		t.Error("different options shared a cached tree")
	}

	f4, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if f4 != f1 {
		t.Error("ParseReader did not reuse the cached tree")
	}

	ClearCache()

	f5, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	if f5 == f1 {
		t.Error("ClearCache did not discard the cached tree")
	}
}

func TestParseCacheErrors(t *testing.T) {
	ClearCache()

	_, err1 := Parse(t.Context(), "let = ;")
	_, err2 := Parse(t.Context(), "let = ;")

	if err1 == nil || err1 != err2 { //nolint:errorlint
		t.Errorf("cached errors differ: %v, %v", err1, err2)
	}
}

func TestParseCacheConcurrent(t *testing.T) {
	ClearCache()

	const workers = 16

	var (
		wg    sync.WaitGroup
		files [workers]*File
		errs  [workers]error
	)

	for i := range workers {
		wg.Go(func() {
			files[i], errs[i] = Parse(t.Context(), "var shared = 42;")
		})
	}

	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d error: %v", i, errs[i])
		}

		if files[i] != files[0] {
			t.Errorf("worker %d got a different tree", i)
		}
	}
}

func TestParseReaderError(t *testing.T) {
	boom := errors.New("boom")

	_, err := ParseReader(t.Context(), iotest.ErrReader(boom))
	if !errors.Is(err, ErrFileRead) {
		t.Errorf("error = %v, want ErrFileRead", err)
	}

	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want cause boom", err)
	}
}

func TestHashOptions(t *testing.T) {
	a := hashOptions(makeOptions())
	b := hashOptions(makeOptions(WithMaxDepth(DefaultMaxDepth)))
	c := hashOptions(makeOptions(WithMaxDepth(3)))

	if a != b {
		t.Error("equivalent options hash differently")
	}

	if a == c {
		t.Error("different depths hash the same")
	}
}

func BenchmarkParse(b *testing.B) {
	src := strings.Repeat("var s = \"x\" + 1 * (2 ^ 3) - 4; { s = s + s; }\n", 64)

	b.Run("cached", func(b *testing.B) {
		ClearCache()

		for b.Loop() {
			if _, err := Parse(b.Context(), src); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("uncached", func(b *testing.B) {
		o := makeOptions()

		for b.Loop() {
			if _, err := parse(b.Context(), src, o); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkExecute(b *testing.B) {
	src := `var s = ""; var n = 0;` +
		strings.Repeat(`{ let k = n * 2; s = s + k; n = n + 1; }`, 64)

	f, err := Parse(b.Context(), src)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		in := New()
		if _, err := in.Execute(b.Context(), f); err != nil {
			b.Fatal(err)
		}
	}
}
