package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/moneylog/internal/client/vault"
)

// Link prints this device's pairing payload for another device to import.
// The payload contains the vault secret, so it should only be shown on a
// trusted screen.
func (a *App) Link(ctx context.Context) error {
	v, err := a.vaults.Current()
	if err != nil {
		printlnFn("Failed to read vault:", err.Error())
		return err
	}
	payload, err := v.MarshalPairing()
	if err != nil {
		printlnFn("Failed to build pairing payload:", err.Error())
		return err
	}
	printlnFn("Pairing payload (enter it with 'pair' on the other device):")
	printlnFn(payload)
	return nil
}

// Pair imports a pairing payload produced by Link on another device. The
// payload is read without echo because it carries the vault secret. The
// local ledger is kept; a follow-up sync merges it into the joined vault.
func (a *App) Pair(ctx context.Context) error {
	payload, err := GetSecret("Pairing payload", os.Stdout)
	if err != nil {
		printlnFn("Failed to read payload:", err.Error())
		return err
	}

	v, err := vault.ParsePairing(payload)
	if err != nil {
		printlnFn("Invalid pairing payload")
		return err
	}
	if err := a.vaults.Import(*v); err != nil {
		printlnFn("Failed to import pairing:", err.Error())
		return err
	}
	if err := a.rebuildSync(); err != nil {
		printlnFn("Failed to restart sync:", err.Error())
		return err
	}

	printlnFn("Paired with vault", v.ID)
	a.Schedule(false)
	return nil
}

// Unlink severs the pairing by minting a fresh vault identity. Local data
// stays; the old vault becomes unreachable from this device.
func (a *App) Unlink(ctx context.Context) error {
	v, err := a.vaults.Unlink()
	if err != nil {
		printlnFn("Failed to unlink:", err.Error())
		return err
	}
	if err := a.rebuildSync(); err != nil {
		printlnFn("Failed to restart sync:", err.Error())
		return err
	}
	printlnFn("Unlinked. New vault id:", v.ID)
	return nil
}
