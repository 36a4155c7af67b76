//go:build windows

package battery

import (
	"unsafe"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

var (
	modkernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procGetSystemPowerStatus = modkernel32.NewProc("GetSystemPowerStatus")
)

// SYSTEM_POWER_STATUS, layout per the Windows API docs.
type systemPowerStatus struct {
	ACLineStatus        byte
	BatteryFlag         byte
	BatteryLifePercent  byte
	Reserved1           byte
	BatteryLifeTime     uint32
	BatteryFullLifeTime uint32
}

const (
	batteryFlagNoBattery = 128
	batteryFlagUnknown   = 255
)

// hasBattery queries GetSystemPowerStatus. Flag 128/255 combined with an
// unknown percentage is a definitive no-battery answer; a percentage in
// range is a definitive yes; anything else falls back to the low flag bits.
func hasBattery(Options) (bool, error) {
	var status systemPowerStatus
	ret, _, callErr := procGetSystemPowerStatus.Call(uintptr(unsafe.Pointer(&status)))
	if ret == 0 {
		return false, pkgerrors.Wrap(callErr, "GetSystemPowerStatus failed")
	}

	if (status.BatteryFlag == batteryFlagNoBattery || status.BatteryFlag == batteryFlagUnknown) &&
		status.BatteryLifePercent == 255 {
		return false, nil
	}
	if status.BatteryLifePercent <= 100 {
		return true, nil
	}
	return status.BatteryFlag&0x0F != 0, nil
}
