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
)

// sysvinit, OpenRC and runit have no Go client library in the pack, so
// their scripts are rendered with the standard library's text/template
// rather than a third-party dependency (see DESIGN.md).

var sysvInitTemplate = template.Must(template.New("sysvinit").Parse(`#!/bin/sh
### BEGIN INIT INFO
# Provides:          {{.Name}}
# Required-Start:    $network $remote_fs
# Required-Stop:     $network $remote_fs
# Default-Start:     2 3 4 5
# Default-Stop:      0 1 6
# Short-Description: {{.Description}}
### END INIT INFO

NAME={{.Name}}
DAEMON={{.BinaryPath}}
DAEMON_ARGS="{{range .Args}}{{.}} {{end}}"
PIDFILE=/var/run/$NAME.pid
{{- if .User}}
RUN_AS={{.User}}
{{- end}}

case "$1" in
  start)
    start-stop-daemon --start --background --make-pidfile --pidfile "$PIDFILE" \
      {{- if .User}} --chuid {{.User}}{{if .Group}}:{{.Group}}{{end}}{{end}} \
      --chdir "{{.WorkDir}}" --exec "$DAEMON" -- $DAEMON_ARGS
    ;;
  stop)
    start-stop-daemon --stop --pidfile "$PIDFILE" --retry 5
    rm -f "$PIDFILE"
    ;;
  restart)
    $0 stop
    $0 start
    ;;
  status)
    if [ -f "$PIDFILE" ] && kill -0 "$(cat "$PIDFILE")" 2>/dev/null; then
      echo "$NAME is running"
    else
      echo "$NAME is not running"
      exit 1
    fi
    ;;
  *)
    echo "Usage: $0 {start|stop|restart|status}"
    exit 2
    ;;
esac
exit 0
`))

var openrcTemplate = template.Must(template.New("openrc").Parse(`#!/sbin/openrc-run

description="{{.Description}}"
command="{{.BinaryPath}}"
command_args="{{range .Args}}{{.}} {{end}}"
command_background=true
pidfile="/run/{{.Name}}.pid"
directory="{{.WorkDir}}"
{{- if .User}}
command_user="{{.User}}{{if .Group}}:{{.Group}}{{end}}"
{{- end}}

depend() {
	need net
	after firewall
}
`))

var runitTemplate = template.Must(template.New("runit").Parse(`#!/bin/sh
exec 2>&1
{{- if .User}}
exec chpst -u {{.User}}{{if .Group}}:{{.Group}}{{end}} \
{{- end}}
cd "{{.WorkDir}}" && exec "{{.BinaryPath}}"{{range .Args}} {{.}}{{end}}
`))

func render(t *template.Template, u Unit) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, u); err != nil {
		return "", err
	}
	return b.String(), nil
}

type sysvInstaller struct{}

func (sysvInstaller) Render(u Unit) (string, error) { return render(sysvInitTemplate, u) }
func (sysvInstaller) InstallPath(u Unit) string      { return filepath.Join("/etc/init.d", u.Name) }
func (sysvInstaller) PostInstall(u Unit) error {
	path := sysvInstaller{}.InstallPath(u)
	if err := exec.Command("chmod", "+x", path).Run(); err != nil {
		return err
	}
	// update-rc.d is Debian-specific and may be absent on other sysvinit
	// distributions; its failure is not fatal to installation.
	_ = exec.Command("update-rc.d", u.Name, "defaults").Run()
	return nil
}

type openrcInstaller struct{}

func (openrcInstaller) Render(u Unit) (string, error) { return render(openrcTemplate, u) }
func (openrcInstaller) InstallPath(u Unit) string      { return filepath.Join("/etc/init.d", u.Name) }
func (openrcInstaller) PostInstall(u Unit) error {
	return exec.Command("chmod", "+x", openrcInstaller{}.InstallPath(u)).Run()
}

type runitInstaller struct{}

func (runitInstaller) Render(u Unit) (string, error) { return render(runitTemplate, u) }
func (runitInstaller) InstallPath(u Unit) string {
	return filepath.Join("/etc/sv", u.Name, "run")
}
func (runitInstaller) PostInstall(u Unit) error {
	return exec.Command("chmod", "+x", runitInstaller{}.InstallPath(u)).Run()
}
