package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateProgressBarFillsProportionally(t *testing.T) {
	require.Equal(t, "#####-----", CreateProgressBar(5, 10, 10))
	require.Equal(t, "#---------", CreateProgressBar(1, 10, 10))
	require.Equal(t, "----------", CreateProgressBar(0, 10, 10))
	require.Equal(t, "##########", CreateProgressBar(10, 10, 10))
}

func TestCreateProgressBarHandlesZeroTotal(t *testing.T) {
	require.Equal(t, "     ", CreateProgressBar(0, 0, 5))
}

func TestCreateProgressBarClampsOvercompletion(t *testing.T) {
	require.Equal(t, "####", CreateProgressBar(9, 5, 4))
}

func TestTruncateLeavesShortStringsAlone(t *testing.T) {
	require.Equal(t, "hello", Truncate("hello", 20))
}

func TestTruncateAddsEllipsisPastMax(t *testing.T) {
	got := Truncate("this is a long line of text", 10)
	require.Len(t, got, 10)
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestCleanTextCollapsesWhitespaceAndNewlines(t *testing.T) {
	require.Equal(t, "a b c", CleanText("a\nb   c\n"))
}

func TestNewWithOptionsSelectsTheme(t *testing.T) {
	colored := NewWithOptions(false)
	require.NotNil(t, colored.Theme())

	plain := NewWithOptions(true)
	require.NotNil(t, plain.Theme())
}

func TestWrapTextSplitsOnWordBoundaries(t *testing.T) {
	d := New()
	lines := d.wrapText("one two three four five six seven eight", 10)
	require.True(t, len(lines) > 1)
	for _, l := range lines {
		require.LessOrEqual(t, len(l), 10)
	}
}

func TestWrapTextShortTextStaysOneLine(t *testing.T) {
	d := New()
	lines := d.wrapText("short", 80)
	require.Equal(t, []string{"short"}, lines)
}

func TestPadRightTruncatesOversizedInput(t *testing.T) {
	d := New()
	require.Equal(t, "abc", d.padRight("abcdef", 3))
	require.Equal(t, "ab   ", d.padRight("ab", 5))
}
