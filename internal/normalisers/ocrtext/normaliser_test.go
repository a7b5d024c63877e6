package ocrtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalise_Empty(t *testing.T) {
	n := New()
	assert.Equal(t, "", n.Normalise(""))
	assert.Equal(t, "", n.Normalise("   \n\n  "))
}

func TestNormalise_WindowsNewlines(t *testing.T) {
	n := New()
	assert.Equal(t, "one\ntwo", n.Normalise("one\r\ntwo"))
}

func TestNormalise_StripsControlAndNoise(t *testing.T) {
	n := New()
	got := n.Normalise("Khasra\x00 No. 12 ~†\x07")
	assert.Equal(t, "Khasra No. 12", got)
}

func TestNormalise_CollapsesWhitespace(t *testing.T) {
	n := New()
	got := n.Normalise("Village    Atmapur\n\n\n\n\nTehsil\tBishnah")
	assert.Equal(t, "Village Atmapur\n\nTehsil Bishnah", got)
}

func TestNormalise_DropsConsecutiveDuplicateLines(t *testing.T) {
	n := New()
	got := n.Normalise("Khewat 14\nKhewat 14\nKhewat 14\nKhasra 233")
	assert.Equal(t, "Khewat 14\nKhasra 233", got)
}

func TestNormalise_PreservesUrduText(t *testing.T) {
	n := New()
	in := "موضع اتما پور\n\nضلع جموں"
	assert.Equal(t, in, n.Normalise(in))
}
