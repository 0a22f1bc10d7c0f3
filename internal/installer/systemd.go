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

package installer

import (
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/coreos/go-systemd/v22/daemon"
)

var systemdUnitTemplate = template.Must(template.New("systemd").Parse(`[Unit]
Description={{.Description}}
After=network-online.target
Wants=network-online.target

[Service]
Type=notify
ExecStart={{.BinaryPath}}{{range .Args}} {{.}}{{end}}
WorkingDirectory={{.WorkDir}}
{{- if .User}}
User={{.User}}
{{- end}}
{{- if .Group}}
Group={{.Group}}
{{- end}}
Restart=on-failure
RestartSec=2
WatchdogSec=30

[Install]
WantedBy=multi-user.target
`))

type systemdInstaller struct{}

func (systemdInstaller) Render(u Unit) (string, error) {
	var b strings.Builder
	if err := systemdUnitTemplate.Execute(&b, u); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (systemdInstaller) InstallPath(u Unit) string {
	return filepath.Join("/etc/systemd/system", u.Name+".service")
}

func (systemdInstaller) PostInstall(u Unit) error {
	return exec.Command("systemctl", "daemon-reload").Run()
}

// NotifyReady tells systemd the daemon has finished starting, for a unit
// declared Type=notify (as rendered above). It is a no-op, returning
// (false, nil), when monitord is not running under systemd.
func NotifyReady() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyReady)
}

// NotifyStopping tells systemd the daemon has begun a graceful shutdown.
func NotifyStopping() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyStopping)
}

// NotifyWatchdog refreshes the systemd watchdog timer; callers running
// under WatchdogSec must call this more often than that interval.
func NotifyWatchdog() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyWatchdog)
}
