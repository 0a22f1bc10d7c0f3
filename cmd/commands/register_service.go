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

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phuonguno98/monitord/internal/installer"
)

// exitInvalidArgument is returned by --register-service on bad flags.
// monitord's CLI exit codes are 0 success, 1 generic failure, 2 invalid
// argument.
const exitInvalidArgument = 2

var registerServiceCmd = &cobra.Command{
	Use:   "register-service",
	Short: "Install a monitord service definition for the host's init system",
	Long: `Render and install a service definition (systemd unit, sysvinit/OpenRC/
runit script) so monitord starts under the host's init system. This only
writes and registers the definition; it does not start the service, and
only the sysvinit path enables it at boot (via update-rc.d, where present).`,
	RunE: runRegisterService,
}

var registerServiceFlags struct {
	init        string
	name        string
	description string
	path        string
	user        string
	group       string
	workdir     string
}

func init() {
	rootCmd.AddCommand(registerServiceCmd)

	fs := registerServiceCmd.Flags()
	fs.StringVar(&registerServiceFlags.init, "init", "systemd", "Init system: systemd, sysvinit, openrc, or runit")
	fs.StringVar(&registerServiceFlags.name, "name", "monitord", "Service name")
	fs.StringVar(&registerServiceFlags.description, "description", "", "Service description")
	fs.StringVar(&registerServiceFlags.path, "path", "", "Path to the monitord binary (defaults to the running binary)")
	fs.StringVar(&registerServiceFlags.user, "user", "", "User to run the service as")
	fs.StringVar(&registerServiceFlags.group, "group", "", "Group to run the service as")
	fs.StringVar(&registerServiceFlags.workdir, "workdir", "", "Working directory for the service")
}

func runRegisterService(cmd *cobra.Command, args []string) error {
	initSystem, err := installer.ParseInitSystem(registerServiceFlags.init)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitInvalidArgument)
	}

	unit := installer.Unit{
		Name:        registerServiceFlags.name,
		Description: registerServiceFlags.description,
		BinaryPath:  registerServiceFlags.path,
		User:        registerServiceFlags.user,
		Group:       registerServiceFlags.group,
		WorkDir:     registerServiceFlags.workdir,
		Args:        []string{"serve"},
	}

	path, err := installer.Install(initSystem, unit)
	if err != nil {
		return fmt.Errorf("register service: %w", err)
	}

	fmt.Printf("installed %s service definition at %s\n", initSystem, path)
	return nil
}
