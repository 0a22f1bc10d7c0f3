/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package installer renders and installs init-system service definitions
// for monitord's --register-service command. It is a standalone utility:
// it never touches the Engine and does not run as part of the daemon
// process.
package installer

import (
	"fmt"
	"os"
	"path/filepath"
)

// InitSystem identifies the target init system.
type InitSystem string

const (
	Systemd  InitSystem = "systemd"
	SysVInit InitSystem = "sysvinit"
	OpenRC   InitSystem = "openrc"
	Runit    InitSystem = "runit"
)

// ParseInitSystem validates a --init flag value.
func ParseInitSystem(s string) (InitSystem, error) {
	switch InitSystem(s) {
	case Systemd, SysVInit, OpenRC, Runit:
		return InitSystem(s), nil
	default:
		return "", fmt.Errorf("unsupported init system %q (want systemd, sysvinit, openrc, or runit)", s)
	}
}

// Unit describes the service being installed.
type Unit struct {
	Name        string
	Description string
	BinaryPath  string
	User        string
	Group       string
	WorkDir     string
	Args        []string
}

// Validate fills in defaults and rejects an unusable Unit.
func (u *Unit) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("service name must not be empty")
	}
	if u.BinaryPath == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve running binary path: %w", err)
		}
		u.BinaryPath = exe
	}
	if u.Description == "" {
		u.Description = "monitord host telemetry daemon"
	}
	if u.WorkDir == "" {
		u.WorkDir = "/"
	}
	return nil
}

// Installer renders a unit/script for a Unit and installs it at the init
// system's conventional path.
type Installer interface {
	// Render produces the unit/script file contents.
	Render(u Unit) (string, error)
	// InstallPath returns the absolute path the rendered file belongs at.
	InstallPath(u Unit) string
	// PostInstall runs any commands needed after the file is written
	// (e.g. systemctl daemon-reload, chmod +x, update-rc.d).
	PostInstall(u Unit) error
}

// For gets the Installer implementation for an init system.
func For(init InitSystem) (Installer, error) {
	switch init {
	case Systemd:
		return systemdInstaller{}, nil
	case SysVInit:
		return sysvInstaller{}, nil
	case OpenRC:
		return openrcInstaller{}, nil
	case Runit:
		return runitInstaller{}, nil
	default:
		return nil, fmt.Errorf("unsupported init system %q", init)
	}
}

// Install renders and writes the unit for init, then runs its
// post-install step. It does not start the service. Only the sysvinit
// post-install step enables it at boot (update-rc.d defaults, where that
// tool exists); for systemd, OpenRC and runit enabling is left to the
// operator.
func Install(init InitSystem, u Unit) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}
	impl, err := For(init)
	if err != nil {
		return "", err
	}
	content, err := impl.Render(u)
	if err != nil {
		return "", fmt.Errorf("render %s unit: %w", init, err)
	}
	path := impl.InstallPath(u)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := impl.PostInstall(u); err != nil {
		return path, fmt.Errorf("post-install for %s: %w", init, err)
	}
	return path, nil
}
