// Command tankctl drives a tank controller from the terminal.
//
//	tankctl [flags] status | ping | species-list
//	tankctl [flags] control fan=on acidPump=off ...
//	tankctl [flags] species <name|none>
//	tankctl [flags] wifi <ssid> [password]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	sb "smart_breeder"
	"smart_breeder/internal/device"
	"smart_breeder/internal/models"
	"smart_breeder/internal/species"
	"smart_breeder/internal/store"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"
)

var errUsage = errors.New("usage: tankctl [--address ip] status|ping|species-list|control k=on ...|species <name|none>|wifi <ssid> [password]")

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	errColor  = color.New(color.FgRed, color.Bold)
)

func main() {
	address := flag.StringP("address", "a", envOr("DEVICE_ADDRESS", "192.168.0.111"), "device address")
	timeout := flag.DurationP("timeout", "t", device.DefaultTimeout, "request timeout")
	profile := flag.StringP("species", "s", "", "species to judge status against")
	flag.Parse()

	client := device.NewClient(device.Options{Address: *address, Timeout: *timeout}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout+time.Second)
	defer cancel()

	if err := run(ctx, client, flag.Args(), *profile, os.Stdout); err != nil {
		errColor.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *device.Client, args []string, profile string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "status":
		res := client.GetStatus(ctx)
		if err := report(out, res); err != nil {
			return err
		}
		reading, _ := res.Data.(models.DeviceReading)
		printReading(out, reading, profile)
		return nil
	case "ping":
		return report(out, client.Ping(ctx))
	case "species-list":
		res := client.ListSpecies(ctx)
		if err := report(out, res); err != nil {
			return err
		}
		list, _ := res.Data.([]species.DeviceSpecies)
		for _, p := range species.Merge(species.Default(), list) {
			fmt.Fprintf(out, "%-4s %-14s pH %.1f-%.1f  %.1f-%.1f °C\n",
				p.ID, p.Name, p.IdealPhMin, p.IdealPhMax, p.IdealTempMin, p.IdealTempMax)
		}
		return nil
	case "control":
		relays, err := parseRelays(rest)
		if err != nil {
			return err
		}
		return report(out, client.SendControl(ctx, relays))
	case "species":
		if len(rest) != 1 {
			return errUsage
		}
		selected, err := lookupSpecies(rest[0])
		if err != nil {
			return err
		}
		return report(out, client.SendSpeciesConfig(ctx, species.Payload(selected)))
	case "wifi":
		if len(rest) < 1 || len(rest) > 2 {
			return errUsage
		}
		cfg := models.WifiConfig{SSID: rest[0]}
		if len(rest) == 2 {
			cfg.Password = rest[1]
		}
		return report(out, client.SendWifiConfig(ctx, cfg))
	default:
		return errUsage
	}
}

// parseRelays turns fan=on acidPump=off into a partial relay map.
func parseRelays(args []string) (map[string]bool, error) {
	if len(args) == 0 {
		return nil, errUsage
	}
	relays := make(map[string]bool, len(args))
	for _, a := range args {
		name, value, ok := strings.Cut(a, "=")
		if !ok || !models.IsRelayName(name) {
			return nil, fmt.Errorf("bad relay argument %q (known: %s)", a, strings.Join(models.RelayNames, ", "))
		}
		relays[name] = device.LooseBool(value)
	}
	return relays, nil
}

// lookupSpecies returns nil for "none".
func lookupSpecies(name string) (*models.SpeciesProfile, error) {
	if strings.EqualFold(name, "none") {
		return nil, nil
	}
	catalog := species.Default()
	if p, ok := species.FindByID(catalog, name); ok {
		return &p, nil
	}
	if p, ok := species.FindByName(catalog, name); ok {
		return &p, nil
	}
	return nil, fmt.Errorf("unknown species %q", name)
}

func report(out io.Writer, res sb.Result) error {
	if !res.Success {
		return errors.New(res.Message)
	}
	okColor.Fprintln(out, res.Message)
	return nil
}

func printReading(out io.Writer, r models.DeviceReading, profile string) {
	fmt.Fprintf(out, "pH %.2f  temperature %.2f °C\n", r.PH, r.Temperature)

	relays := r.Relays()
	for _, name := range models.RelayNames {
		state := "off"
		if relays[name] {
			state = "on"
		}
		fmt.Fprintf(out, "  %-13s %s\n", name, state)
	}

	if profile == "" {
		return
	}
	selected, err := lookupSpecies(profile)
	if err != nil || selected == nil {
		return
	}
	switch store.Health(&r, selected) {
	case models.HealthSuccess:
		okColor.Fprintf(out, "healthy for %s\n", selected.Name)
	case models.HealthWarning:
		warnColor.Fprintf(out, "one reading outside the %s range\n", selected.Name)
	default:
		errColor.Fprintf(out, "both readings outside the %s range\n", selected.Name)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
