package widget

import (
	"testing"

	"github.com/gdamore/tcell"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"github.com/stretchr/testify/assert"
)

func TestStepWindow(t *testing.T) {
	tests := []struct {
		name     string
		window   traffic.Window
		delta    int
		expected traffic.Window
	}{
		{"start filtering", traffic.AnyTime, windowStep, 0},
		{"stay unfiltered", traffic.AnyTime, -windowStep, traffic.AnyTime},
		{"forward", 600, windowStep, 615},
		{"back", 600, -windowStep, 585},
		{"back past midnight", 10, -windowStep, traffic.AnyTime},
		{"clamp end of day", 1430, windowStep, 1439},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StepWindow(tt.window, tt.delta))
		})
	}
}

func TestMarkerGlyph(t *testing.T) {
	assert.Equal(t, '·', markerGlyph(0, 25))
	assert.Equal(t, '·', markerGlyph(5, 0))
	assert.Equal(t, '∙', markerGlyph(10, 25))
	assert.Equal(t, '•', markerGlyph(15, 25))
	assert.Equal(t, '●', markerGlyph(25, 25))
}

func TestFlowArrow(t *testing.T) {
	assert.Equal(t, "↑", flowArrow(traffic.RatioDepartures))
	assert.Equal(t, "↓", flowArrow(traffic.RatioArrivals))
	assert.Equal(t, "↕", flowArrow(traffic.RatioBalanced))
}

func TestMarkerColor(t *testing.T) {
	assert.Equal(t, tcell.NewRGBColor(0x46, 0x82, 0xb4), markerColor("#4682b4"))
	assert.Equal(t, tcell.ColorWhite, markerColor("steelblue"))
}

func TestSlider(t *testing.T) {
	assert.Equal(t, sliderWidth+2, len(slider(traffic.AnyTime)))
	assert.Equal(t, "[|", slider(0)[:2])
	assert.Equal(t, "|]", slider(1439)[sliderWidth:])
}

func TestBusiest(t *testing.T) {
	views := []traffic.StationView{
		{Code: "A", StationMetrics: traffic.StationMetrics{TotalTraffic: 1}},
		{Code: "B", StationMetrics: traffic.StationMetrics{TotalTraffic: 5}},
		{Code: "C", StationMetrics: traffic.StationMetrics{TotalTraffic: 3}},
	}

	top := busiest(views, 2)
	assert.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Code)
	assert.Equal(t, "C", top[1].Code)
	assert.Equal(t, "A", views[0].Code)
}
