package nodeid

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/containerd/log"

	"github.com/dombox/uuidcreator/random"
)

var errNoHostData = errors.New("no host name or network data")

// Host lookups, replaced in tests.
var (
	hostname       = os.Hostname
	interfaces     = net.Interfaces
	interfaceAddrs = net.InterfaceAddrs
	lookupHost     = net.DefaultResolver.LookupHost
	getpid         = os.Getpid
)

// Default hashes host name, addresses and process data into a stable
// identifier with the multicast bit set.
type Default struct {
	cache
	fallback Strategy
}

// NewDefault returns a Default strategy falling back to Random over src.
func NewDefault(src random.Source) *Default {
	return &Default{fallback: NewRandom(src)}
}

// NodeIdentifier implements Strategy.
func (d *Default) NodeIdentifier(ctx context.Context) (uint64, error) {
	return d.get(ctx, func(ctx context.Context) (uint64, error) {
		data, err := hostData(ctx)
		if err != nil {
			return fallback(ctx, KindDefault.String(), err, d.fallback)
		}
		sum := sha256.Sum256([]byte(data))
		v := uint64(sum[0])<<40 | uint64(sum[1])<<32 | uint64(sum[2])<<24 |
			uint64(sum[3])<<16 | uint64(sum[4])<<8 | uint64(sum[5])
		return v | MulticastBit, nil
	})
}

// hostData gathers whatever identifies this host and process. Lookups that
// fail or outlive ctx are skipped.
func hostData(ctx context.Context) (string, error) {
	var parts []string

	host, err := hostname()
	if err == nil && host != "" {
		parts = append(parts, host)
		if addrs, err := lookupHost(ctx, host); err == nil {
			sort.Strings(addrs)
			parts = append(parts, addrs...)
		} else {
			log.G(ctx).WithError(err).WithField("host", host).Debug("host name lookup failed")
		}
	}

	if addrs, err := interfaceAddrs(); err == nil {
		for _, a := range addrs {
			parts = append(parts, a.String())
		}
	}

	if ifaces, err := interfaces(); err == nil {
		for _, i := range ifaces {
			if len(i.HardwareAddr) > 0 {
				parts = append(parts, i.HardwareAddr.String())
			}
		}
	}

	if len(parts) == 0 {
		return "", errNoHostData
	}

	parts = append(parts,
		fmt.Sprintf("pid=%d", getpid()),
		runtime.GOOS,
		runtime.GOARCH,
		runtime.Version(),
	)
	return strings.Join(parts, "|"), nil
}

// HardwareAddress uses the first usable network interface hardware
// address as is.
type HardwareAddress struct {
	cache
	fallback Strategy
}

// NewHardwareAddress returns a HardwareAddress strategy falling back to
// Default.
func NewHardwareAddress(src random.Source) *HardwareAddress {
	return &HardwareAddress{fallback: NewDefault(src)}
}

// NodeIdentifier implements Strategy.
func (h *HardwareAddress) NodeIdentifier(ctx context.Context) (uint64, error) {
	return h.get(ctx, func(ctx context.Context) (uint64, error) {
		mac, err := hardwareAddress()
		if err != nil {
			return fallback(ctx, KindHardware.String(), err, h.fallback)
		}
		var v uint64
		for _, b := range mac {
			v = v<<8 | uint64(b)
		}
		return v, nil
	})
}

func hardwareAddress() (net.HardwareAddr, error) {
	ifaces, err := interfaces()
	if err != nil {
		return nil, err
	}
	for _, i := range ifaces {
		if i.Flags&net.FlagUp == 0 || i.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(i.HardwareAddr) != 6 || isZero(i.HardwareAddr) {
			continue
		}
		return i.HardwareAddr, nil
	}
	return nil, errors.New("no interface with a hardware address")
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
