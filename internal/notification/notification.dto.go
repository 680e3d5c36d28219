package notification

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var Platforms = []string{"ios", "android", "web"}

var ErrInvalidDevice = errors.New("invalid device registration")

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// Validate normalizes the request in place.
func (r *RegisterDeviceRequest) Validate() error {
	r.Token = strings.TrimSpace(r.Token)
	r.Platform = strings.ToLower(strings.TrimSpace(r.Platform))
	if r.Token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidDevice)
	}
	if !slices.Contains(Platforms, r.Platform) {
		return fmt.Errorf("%w: platform must be one of %s", ErrInvalidDevice, strings.Join(Platforms, ", "))
	}
	return nil
}
