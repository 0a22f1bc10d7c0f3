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

	"github.com/phuonguno98/monitord/internal/devices"
)

var listDevicesCmd = &cobra.Command{
	Use:   "list-devices",
	Short: "List disk devices, network interfaces and GPUs visible to monitord",
	Long: `List all disk devices, network interfaces and GPUs on the host. The
storage and network collectors monitor every device and interface they find;
no include/exclude device list is read from configuration.

Examples:
  # List all available devices
  monitord list-devices`,
	RunE: runListDevices,
}

func init() {
	rootCmd.AddCommand(listDevicesCmd)
}

func runListDevices(cmd *cobra.Command, args []string) error {
	fmt.Println("\n========================================")
	fmt.Println("   monitord - Available Devices")
	fmt.Println("========================================")

	disks, err := devices.ListDisks()
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error listing disks: %v\n", err)
	case len(disks) == 0:
		fmt.Println("\nNo disk devices found.")
	default:
		fmt.Print(devices.FormatDisksTable(disks))
	}

	networks, err := devices.ListNetworkInterfaces()
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error listing network interfaces: %v\n", err)
	case len(networks) == 0:
		fmt.Println("\nNo network interfaces found.")
	default:
		fmt.Print(devices.FormatNetworksTable(networks))
	}

	gpus, err := devices.ListGpuDevices()
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error listing GPUs: %v\n", err)
	case len(gpus) == 0:
		fmt.Print(devices.FormatGpusTable(nil))
	default:
		fmt.Print(devices.FormatGpusTable(gpus))
	}

	fmt.Println("\nNotes:")
	fmt.Println("  - Storage and network include/exclude device lists are not read from configuration")
	fmt.Println("  - serve monitors every device and interface its collectors find")
	fmt.Println()

	return nil
}
