//go:build !linux
// +build !linux

package proc

func SetSubreaper() error {
	return ErrSubreaperUnsupported
}
