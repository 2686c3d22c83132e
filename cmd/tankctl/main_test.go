package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"smart_breeder/internal/device"
	"smart_breeder/internal/models"
	"smart_breeder/internal/simulator"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	color.NoColor = true
}

func TestParseRelays(t *testing.T) {
	relays, err := parseRelays([]string{"fan=on", "acidPump=off", "waterHeater=1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"fan": true, "acidPump": false, "waterHeater": true}, relays)

	_, err = parseRelays([]string{"jacuzzi=on"})
	assert.Error(t, err)
	_, err = parseRelays([]string{"fan"})
	assert.Error(t, err)
	_, err = parseRelays(nil)
	assert.ErrorIs(t, err, errUsage)
}

func TestLookupSpecies(t *testing.T) {
	p, err := lookupSpecies("none")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = lookupSpecies("guppy")
	require.NoError(t, err)
	assert.Equal(t, "Guppy", p.Name)

	p, err = lookupSpecies("2")
	require.NoError(t, err)
	assert.Equal(t, "2", p.ID)

	_, err = lookupSpecies("Shark")
	assert.Error(t, err)
}

func TestRun_AgainstSimulator(t *testing.T) {
	dev := simulator.New(simulator.Options{}, nil)
	srv := httptest.NewServer(dev.Router())
	defer srv.Close()

	client := device.NewClient(device.Options{Address: srv.URL}, nil)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, run(ctx, client, []string{"control", "fan=on"}, "", &out))
	assert.True(t, dev.Reading().Fan)

	out.Reset()
	require.NoError(t, run(ctx, client, []string{"status"}, "", &out))
	assert.Contains(t, out.String(), "pH 7.00")
	assert.Regexp(t, `fan\s+on`, out.String())

	require.NoError(t, run(ctx, client, []string{"species", "Betta Fish"}, "", &out))
	require.NotNil(t, dev.Species())
	assert.Equal(t, "Betta Fish", dev.Species().Name)

	require.NoError(t, run(ctx, client, []string{"species", "none"}, "", &out))
	assert.Nil(t, dev.Species())

	require.NoError(t, run(ctx, client, []string{"wifi", "tank-net", "secret"}, "", &out))
	assert.Equal(t, models.WifiConfig{SSID: "tank-net", Password: "secret"}, dev.Wifi())

	out.Reset()
	require.NoError(t, run(ctx, client, []string{"species-list"}, "", &out))
	assert.Equal(t, 7, strings.Count(out.String(), "°C"))

	assert.ErrorIs(t, run(ctx, client, nil, "", &out), errUsage)
	assert.ErrorIs(t, run(ctx, client, []string{"reboot"}, "", &out), errUsage)
}

func TestRun_StatusHealth(t *testing.T) {
	// 7.0 pH and 25 °C: pH fits Goldfish, temperature does not.
	dev := simulator.New(simulator.Options{}, nil)
	srv := httptest.NewServer(dev.Router())
	defer srv.Close()

	client := device.NewClient(device.Options{Address: srv.URL}, nil)
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), client, []string{"status"}, "Goldfish", &out))
	assert.Contains(t, out.String(), "one reading outside the Goldfish range")
}
