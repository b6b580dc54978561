package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"zero value", Page{}, Page{Number: 1, Size: 50}},
		{"negative page", Page{Number: -3, Size: 10}, Page{Number: 1, Size: 10}},
		{"oversized", Page{Number: 2, Size: 1000}, Page{Number: 2, Size: 200}},
		{"in range", Page{Number: 3, Size: 25}, Page{Number: 3, Size: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 1, Size: 50}.Offset())
	assert.Equal(t, 100, Page{Number: 3, Size: 50}.Offset())
}
