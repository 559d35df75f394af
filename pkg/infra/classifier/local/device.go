package local

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// ResolveDevice maps the requested device to one the pipeline can run on. Inference runs on
// the CPU, so GPU requests fall back to it.
func ResolveDevice(logger *logrus.Logger, requested string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case "", DeviceAuto, DeviceCPU:
		return DeviceCPU, nil
	case DeviceCUDA:
		logger.WithField("requested", DeviceCUDA).Warn("gpu inference is not available, falling back to cpu")
		return DeviceCPU, nil
	default:
		return "", fmt.Errorf("unsupported device %q", requested)
	}
}
