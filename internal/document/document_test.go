package document

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInput = `{
	"base_requests": [
		{"type": "Stop", "name": "A", "latitude": 55.611087, "longitude": 37.20829, "road_distances": {"B": 3900}},
		{"type": "Stop", "name": "B", "latitude": 55.595884, "longitude": 37.209755, "road_distances": {"C": 9900}},
		{"type": "Stop", "name": "C", "latitude": 55.632761, "longitude": 37.333324, "road_distances": {"A": 100}},
		{"type": "Bus", "name": "297", "is_roundtrip": true, "stops": ["A", "B", "C", "A"]}
	],
	"render_settings": {
		"width": 600, "height": 400, "padding": 30,
		"line_width": 14, "stop_radius": 5,
		"bus_label_font_size": 20, "bus_label_offset": [7, 15],
		"stop_label_font_size": 18, "stop_label_offset": [7, -3],
		"underlayer_color": [255, 255, 255, 0.85], "underlayer_width": 3,
		"color_palette": ["green", [255, 160, 0], "red"]
	},
	"routing_settings": {"bus_velocity": 40, "bus_wait_time": 6},
	"stat_requests": [
		{"id": 1, "type": "Bus", "name": "297"},
		{"id": 2, "type": "Stop", "name": "A"},
		{"id": 3, "type": "Stop", "name": "Nowhere"},
		{"id": 4, "type": "Route", "from": "A", "to": "A"},
		{"id": 5, "type": "Map"}
	]
}`

func TestRunAnswersFullRequestStream(t *testing.T) {
	var in InputDocument
	require.NoError(t, json.Unmarshal([]byte(sampleInput), &in))

	responses := Run(in)
	require.Len(t, responses, 5)

	busResp := responses[0]
	assert.Equal(t, 1, busResp["request_id"])
	assert.Equal(t, 13900, busResp["route_length"])
	assert.Equal(t, 4, busResp["stop_count"])
	assert.Equal(t, 3, busResp["unique_stop_count"])

	stopResp := responses[1]
	assert.Equal(t, []string{"297"}, stopResp["buses"])

	unknownStopResp := responses[2]
	assert.Equal(t, "not found", unknownStopResp["error_message"])

	routeResp := responses[3]
	assert.Equal(t, 0.0, routeResp["total_time"])
	assert.Empty(t, routeResp["items"])

	mapResp := responses[4]
	svg, ok := mapResp["map"].(string)
	require.True(t, ok)
	assert.Contains(t, svg, "<?xml version=\"1.0\" encoding=\"UTF-8\" ?>")
	assert.Contains(t, svg, "<polyline")
}

func TestColorValueDecodesAllThreeShapes(t *testing.T) {
	var named ColorValue
	require.NoError(t, json.Unmarshal([]byte(`"red"`), &named))
	assert.Equal(t, "red", named.Color.String())

	var rgb ColorValue
	require.NoError(t, json.Unmarshal([]byte(`[255,160,0]`), &rgb))
	assert.Equal(t, "rgb(255,160,0)", rgb.Color.String())

	var rgba ColorValue
	require.NoError(t, json.Unmarshal([]byte(`[255,255,255,0.85]`), &rgba))
	assert.Equal(t, "rgba(255,255,255,0.85)", rgba.Color.String())
}

func TestColorValueRejectsMalformedArray(t *testing.T) {
	var c ColorValue
	err := json.Unmarshal([]byte(`[1,2]`), &c)
	assert.Error(t, err)
}

func TestAnswerUnknownRequestTypeIsNotFound(t *testing.T) {
	var in InputDocument
	require.NoError(t, json.Unmarshal([]byte(sampleInput), &in))
	in.StatRequests = []StatRequest{{ID: 99, Type: "Bogus"}}

	responses := Run(in)
	require.Len(t, responses, 1)
	assert.Equal(t, "not found", responses[0]["error_message"])
}
