package mapview

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"insarmap/internal/symbology"
)

func TestNewMarker(t *testing.T) {
	circle := NewMarker(52.0, 4.3, "#1f77b4", symbology.Circle, "x")
	assert.Equal(t, CircleRadius, circle.Radius)
	assert.Empty(t, circle.SVG)

	for _, shape := range []symbology.Shape{symbology.Triangle, symbology.Square, symbology.Star, symbology.Diamond} {
		m := NewMarker(52.0, 4.3, "#ff7f0e", shape, "x")
		assert.Equal(t, PolygonRadius, m.Radius, shape)
		assert.Equal(t, 2*PolygonRadius+2, m.Size, shape)
		assert.True(t, strings.HasPrefix(m.SVG, "<svg"), shape)
		assert.Contains(t, m.SVG, `fill="#ff7f0e"`, shape)
		assert.Contains(t, m.SVG, `fill-opacity="0.9"`, shape)
	}
}

func TestPolygonVertices(t *testing.T) {
	tests := []struct {
		shape symbology.Shape
		want  int
	}{
		{symbology.Triangle, 3},
		{symbology.Square, 4},
		{symbology.Diamond, 4},
		{symbology.Star, 10},
	}

	for _, tt := range tests {
		t.Run(string(tt.shape), func(t *testing.T) {
			pts := polygonVertices(tt.shape, 8, 8, 7)
			assert.Len(t, pts, tt.want)
			for _, p := range pts {
				d := math.Hypot(p[0]-8, p[1]-8)
				assert.LessOrEqual(t, d, 7.0+1e-9)
			}
		})
	}

	diamond := polygonVertices(symbology.Diamond, 8, 8, 7)
	assert.InDelta(t, 8.0, diamond[0][0], 1e-9, "diamond points up")
	assert.InDelta(t, 1.0, diamond[0][1], 1e-9)

	square := polygonVertices(symbology.Square, 8, 8, 7)
	assert.InDelta(t, square[0][1], square[3][1], 1e-9, "square has a flat top")
}

func TestPopupHTML(t *testing.T) {
	got := PopupHTML([]string{"siteId", "owner"}, []string{"HENGELO", "<TUD & co>"})
	assert.Equal(t, "<b>siteId:</b> HENGELO<br><b>owner:</b> &lt;TUD &amp; co&gt;", got)
	assert.Equal(t, "", PopupHTML(nil, nil))
}
