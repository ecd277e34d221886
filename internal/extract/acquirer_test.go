package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakops88-hub/Nordicsecure/internal/common"
	"github.com/jakops88-hub/Nordicsecure/internal/ocr"
)

func TestLikelyScanned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"short fragment", "Invoice", true},
		{"whitespace only", strings.Repeat(" \n", 200), true},
		{"long real text", strings.Repeat("This invoice covers delivered goods. ", 10), false},
		{"mostly digits and noise", strings.Repeat("0 1 2 3 4 5 6 7 8 9 . ", 20), true},
		// 87 runes but 111 bytes: the threshold counts characters, so the
		// byte length must not mask a short Swedish fragment.
		{"short multibyte text", strings.Repeat("fakturaåäö ", 8), true},
		{"long multibyte text", strings.Repeat("fakturaåäö ", 12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, likelyScanned(tt.text))
		})
	}
}

func TestOpenReaderRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := openReader([]byte("definitely not a pdf"))
	assert.ErrorIs(t, err, common.ErrDocumentInvalid)

	_, err = openReader(nil)
	assert.ErrorIs(t, err, common.ErrDocumentInvalid)
}

// scannedPDF builds a two-page PDF whose content streams are empty, so
// digital extraction yields no text and the OCR fallback must fire.
func scannedPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make(map[int]int)
	writeObj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 5 0 R >>")
	writeObj(4, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 6 0 R >>")
	writeObj(5, "<< /Length 0 >>\nstream\n\nendstream")
	writeObj(6, "<< /Length 0 >>\nstream\n\nendstream")

	xref := buf.Len()
	buf.WriteString("xref\n0 7\n0000000000 65535 f \n")
	for n := 1; n <= 6; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 7 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

type fakeOCR struct {
	texts []string
	err   error
	calls [][]int
}

func (f *fakeOCR) Available() bool { return true }

func (f *fakeOCR) Recognize(_ context.Context, _ []byte, pageIndices []int) ([]string, error) {
	f.calls = append(f.calls, append([]int(nil), pageIndices...))
	if f.err != nil {
		return nil, f.err
	}
	return f.texts, nil
}

func TestAcquireFallsBackToOCR(t *testing.T) {
	t.Parallel()

	pdfBytes := scannedPDF(t)
	backend := &fakeOCR{texts: []string{"Fakturanr 2024-0042", ""}}
	a := NewPDFAcquirer(backend, nil)

	total, err := a.PageCount(pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	acq, err := a.Acquire(context.Background(), pdfBytes, []int{0, 1})
	require.NoError(t, err)
	assert.True(t, acq.UsedOCR)
	assert.Equal(t, 2, acq.TotalPages)
	require.Len(t, acq.Pages, 2)
	assert.Equal(t, 1, acq.Pages[0].PageNumber)
	assert.Equal(t, "Fakturanr 2024-0042", acq.Pages[0].Text)
	assert.Equal(t, 2, acq.Pages[1].PageNumber)
	// A page the OCR also failed to read stays empty but still counts as
	// an OCR acquisition.
	assert.Equal(t, "", acq.Pages[1].Text)

	require.Len(t, backend.calls, 1)
	assert.Equal(t, []int{0, 1}, backend.calls[0])
}

func TestAcquireSubsetKeepsSourcePageNumbers(t *testing.T) {
	t.Parallel()

	backend := &fakeOCR{texts: []string{"Sida två"}}
	a := NewPDFAcquirer(backend, nil)

	acq, err := a.Acquire(context.Background(), scannedPDF(t), []int{1})
	require.NoError(t, err)
	assert.True(t, acq.UsedOCR)
	require.Len(t, acq.Pages, 1)
	assert.Equal(t, 2, acq.Pages[0].PageNumber)
	assert.Equal(t, "Sida två", acq.Pages[0].Text)
}

func TestAcquireOCRUnavailable(t *testing.T) {
	t.Parallel()

	a := NewPDFAcquirer(ocr.Disabled{}, nil)
	_, err := a.Acquire(context.Background(), scannedPDF(t), []int{0, 1})
	assert.ErrorIs(t, err, common.ErrOCRUnavailable)
}

func TestAcquireOCRFailureIsFatal(t *testing.T) {
	t.Parallel()

	backend := &fakeOCR{err: errors.New("tesseract exploded")}
	a := NewPDFAcquirer(backend, nil)

	_, err := a.Acquire(context.Background(), scannedPDF(t), []int{0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ocr fallback")
}
