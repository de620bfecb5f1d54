package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRejectsEmptyContent(t *testing.T) {
	_, err := NewExtractor(nil).Extract(nil)
	assert.Error(t, err)
}

func TestExtractRejectsNonPDFContent(t *testing.T) {
	_, err := NewExtractor(nil).Extract([]byte("this is not a pdf"))
	assert.Error(t, err)
}
