package emissions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseTransportMode(t *testing.T) {
	tests := []struct {
		in      string
		want    TransportMode
		wantErr bool
	}{
		{in: "air", want: ModeAir},
		{in: "sea", want: ModeSea},
		{in: "land", want: ModeLand},
		{in: "rail", wantErr: true},
		{in: "", wantErr: true},
		{in: "Air", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTransportMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransportModeJSON(t *testing.T) {
	for _, mode := range AllModes() {
		data, err := json.Marshal(mode)
		require.NoError(t, err)
		assert.Equal(t, `"`+mode.String()+`"`, string(data))

		var back TransportMode
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, mode, back)
	}

	var m TransportMode
	err := json.Unmarshal([]byte(`"teleport"`), &m)
	require.ErrorIs(t, err, ErrUnknownMode)

	_, err = json.Marshal(TransportMode(7))
	require.Error(t, err)
}

func TestTransportModeYAML(t *testing.T) {
	for _, mode := range AllModes() {
		data, err := yaml.Marshal(mode)
		require.NoError(t, err)
		assert.Equal(t, mode.String()+"\n", string(data))

		var back TransportMode
		require.NoError(t, yaml.Unmarshal(data, &back))
		assert.Equal(t, mode, back)
	}

	var m TransportMode
	err := yaml.Unmarshal([]byte(`carrier-pigeon`), &m)
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestAllModesOrder(t *testing.T) {
	assert.Equal(t, []TransportMode{ModeAir, ModeSea, ModeLand}, AllModes())
}

func TestShipmentRecordValidate(t *testing.T) {
	valid := ShipmentRecord{
		ID:            "SHP-001",
		Origin:        "Shanghai",
		Destination:   "Rotterdam",
		WeightKG:      15000,
		TransportType: ModeSea,
		Timestamp:     "2025-11-04T08:30:00Z",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*ShipmentRecord)
		wantErr error
	}{
		{name: "missing id", mutate: func(r *ShipmentRecord) { r.ID = "" }, wantErr: ErrMissingField},
		{name: "missing origin", mutate: func(r *ShipmentRecord) { r.Origin = "" }, wantErr: ErrMissingField},
		{name: "missing destination", mutate: func(r *ShipmentRecord) { r.Destination = "" }, wantErr: ErrMissingField},
		{name: "zero weight", mutate: func(r *ShipmentRecord) { r.WeightKG = 0 }, wantErr: ErrNonPositiveWeight},
		{name: "negative weight", mutate: func(r *ShipmentRecord) { r.WeightKG = -10 }, wantErr: ErrNonPositiveWeight},
		{name: "invalid mode", mutate: func(r *ShipmentRecord) { r.TransportType = TransportMode(9) }, wantErr: ErrUnknownMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)
			require.ErrorIs(t, rec.Validate(), tt.wantErr)
		})
	}
}

func TestShipmentRecordRoute(t *testing.T) {
	rec := ShipmentRecord{Origin: "Warsaw", Destination: "Lyon"}
	assert.Equal(t, "Warsaw → Lyon", rec.Route())
}
