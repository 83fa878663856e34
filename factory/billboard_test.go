package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/billboard-engine/factory"
)

func TestNormalizeBillboard_CasingVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		id   string
		size string
		lvl  string
	}{
		{
			name: "upper case keys, numeric id",
			raw:  map[string]any{"ID": float64(7), "Size": "12x4", "Level": "vip"},
			id:   "7", size: "12x4", lvl: "vip",
		},
		{
			name: "lower case keys, string id",
			raw:  map[string]any{"id": "7", "size": "4*12", "billboard_level": "عادي"},
			id:   "7", size: "4*12", lvl: "عادي",
		},
		{
			name: "aliased keys",
			raw:  map[string]any{"Billboard_ID": "B-12", "Billboard_Size": " 6x18 ", "Grade": "ممتاز"},
			id:   "B-12", size: "6x18", lvl: "ممتاز",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := factory.NormalizeBillboard(tt.raw)
			assert.Equal(t, tt.id, b.ID)
			assert.Equal(t, tt.size, b.Size)
			assert.Equal(t, tt.lvl, b.Level)
		})
	}
}

func TestNormalizeBillboard_SizeID(t *testing.T) {
	b := factory.NormalizeBillboard(map[string]any{"id": "1", "Size_ID": float64(3), "City": "طرابلس"})

	require.NotNil(t, b.SizeID)
	assert.Equal(t, int64(3), *b.SizeID)
	assert.Equal(t, "طرابلس", b.City)

	none := factory.NormalizeBillboard(map[string]any{"id": "1", "size_id": "large"})
	assert.Nil(t, none.SizeID)
}

func TestNormalizeBillboard_EmptyValuesFallThrough(t *testing.T) {
	// An empty primary alias yields to the next one
	b := factory.NormalizeBillboard(map[string]any{"size": "", "billboard_size": "8x24", "name": nil, "billboard_name": "Airport"})

	assert.Equal(t, "8x24", b.Size)
	assert.Equal(t, "Airport", b.Name)
}

func TestParseBillboards(t *testing.T) {
	data := []byte(`[{"ID": 1, "Size": "4x12", "Level": "عادي"}, {"id": "2", "size": "6 x 18"}]`)

	billboards, err := factory.ParseBillboards(data)

	require.NoError(t, err)
	require.Len(t, billboards, 2)
	assert.Equal(t, "1", billboards[0].ID)
	assert.Equal(t, "عادي", billboards[0].Level)
	assert.Equal(t, "6 x 18", billboards[1].Size)

	_, err = factory.ParseBillboards([]byte(`{}`))
	assert.Error(t, err)
}
