package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	vcd_client "github.com/vcd-tools/go-vcd-client"
	"github.com/vcd-tools/go-vcd-client/core"
)

// confirmModeFromFlags maps the --force / --decline pair onto the client's
// confirmation policy. Neither flag means an interactive prompt.
func confirmModeFromFlags(force, decline bool) core.ConfirmMode {
	switch {
	case decline:
		return core.ConfirmAlwaysDecline
	case force:
		return core.ConfirmAutoApprove
	default:
		return core.ConfirmRequired
	}
}

// askConfirm returns an interactive confirmation function reading y/N
// answers from in.
func askConfirm(in io.Reader, out io.Writer) func(action, entity string) bool {
	reader := bufio.NewReader(in)
	return func(action, entity string) bool {
		fmt.Fprintf(out, "Perform %s on %q? [y/N]: ", action, entity)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}

func buildRest(logger *zap.Logger) (*vcd_client.VCDRest, error) {
	config := &core.VCDConfig{
		Host:       viper.GetString("host"),
		Port:       viper.GetUint64("port"),
		Org:        viper.GetString("org"),
		Username:   viper.GetString("user"),
		Password:   viper.GetString("password"),
		Token:      viper.GetString("token"),
		SslVerify:  !viper.GetBool("insecure"),
		ApiVersion: viper.GetString("api-version"),
		Confirm:    confirmModeFromFlags(viper.GetBool("force"), viper.GetBool("decline")),
		ConfirmFn:  askConfirm(os.Stdin, os.Stderr),
		BeforeRequestFn: func(ctx context.Context, req *http.Request, verb, url string, body io.Reader) error {
			logger.Debug("issuing request", zap.String("method", verb), zap.String("url", url))
			return nil
		},
	}
	if config.Host == "" {
		return nil, errors.New("--host (or VCD_HOST) is required")
	}
	rest, err := vcd_client.NewVCDRest(config)
	if err != nil {
		return nil, err
	}
	if err = rest.Versions.Verify(); err != nil {
		return nil, err
	}
	return rest, nil
}

// resolveEntity turns the --href / --vm flags into an entity handle.
func resolveEntity(rest *vcd_client.VCDRest, href, vmName string) (vcd_client.EntityHandle, error) {
	if href != "" {
		name := vmName
		if name == "" {
			name = href
		}
		return vcd_client.EntityHandle{Name: name, Href: href}, nil
	}
	if vmName != "" {
		return rest.Vms.GetByName(vmName)
	}
	return vcd_client.EntityHandle{}, errors.New("either --href or --vm must be provided")
}

func render(out io.Writer, records vcd_client.RecordSet) {
	if viper.GetBool("json") {
		fmt.Fprintln(out, records.PrettyJson("  "))
		return
	}
	fmt.Fprintln(out, records.PrettyTable())
}

func addEntityFlags(cmd *cobra.Command) {
	cmd.Flags().String("href", "", "resource href of the VM or vApp")
	cmd.Flags().String("vm", "", "VM display name (resolved through the query service)")
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the snapshot of an entity, or of every VM when no target is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()
			rest, err := buildRest(logger)
			if err != nil {
				return err
			}
			href, _ := cmd.Flags().GetString("href")
			vmName, _ := cmd.Flags().GetString("vm")

			if href == "" && vmName == "" {
				records, err := rest.Snapshots.GetAll(nil)
				if err != nil {
					return err
				}
				out := make(vcd_client.RecordSet, 0, len(records))
				for _, record := range records {
					out = append(out, record.Record())
				}
				render(cmd.OutOrStdout(), out)
				return nil
			}

			entity, err := resolveEntity(rest, href, vmName)
			if err != nil {
				return err
			}
			record, err := rest.Snapshots.Get(entity)
			if err != nil {
				return err
			}
			if record == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "entity %q has no snapshot\n", entity.Name)
				return nil
			}
			render(cmd.OutOrStdout(), vcd_client.RecordSet{record.Record()})
			return nil
		},
	}
	addEntityFlags(cmd)
	return cmd
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Take a snapshot of an entity, replacing any existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()
			rest, err := buildRest(logger)
			if err != nil {
				return err
			}
			href, _ := cmd.Flags().GetString("href")
			vmName, _ := cmd.Flags().GetString("vm")
			entity, err := resolveEntity(rest, href, vmName)
			if err != nil {
				return err
			}

			opts := vcd_client.CreateSnapshotOptions{}
			opts.CaptureMemory, _ = cmd.Flags().GetBool("memory")
			if noQuiesce, _ := cmd.Flags().GetBool("no-quiesce"); noQuiesce {
				quiesce := false
				opts.Quiesce = &quiesce
			}

			record, err := rest.Snapshots.Create(entity, opts)
			if err != nil {
				return err
			}
			if record == nil {
				// The create task may still be running; the follow-up query saw
				// no snapshot yet.
				fmt.Fprintf(cmd.OutOrStdout(), "snapshot requested for %q, not yet visible\n", entity.Name)
				return nil
			}
			render(cmd.OutOrStdout(), vcd_client.RecordSet{record.Record()})
			return nil
		},
	}
	addEntityFlags(cmd)
	cmd.Flags().Bool("memory", false, "include the entity's memory state in the snapshot")
	cmd.Flags().Bool("no-quiesce", false, "skip filesystem quiescing before the snapshot")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the snapshot of an entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDestructive(cmd, "removed", func(rest *vcd_client.VCDRest, entity vcd_client.EntityHandle) (bool, error) {
				return rest.Snapshots.RemoveAll(entity)
			})
		},
	}
	addEntityFlags(cmd)
	return cmd
}

func newRevertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revert",
		Short: "Revert an entity to its current snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDestructive(cmd, "reverted", func(rest *vcd_client.VCDRest, entity vcd_client.EntityHandle) (bool, error) {
				return rest.Snapshots.Revert(entity)
			})
		},
	}
	addEntityFlags(cmd)
	return cmd
}

func runDestructive(cmd *cobra.Command, verb string, action func(*vcd_client.VCDRest, vcd_client.EntityHandle) (bool, error)) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()
	rest, err := buildRest(logger)
	if err != nil {
		return err
	}
	href, _ := cmd.Flags().GetString("href")
	vmName, _ := cmd.Flags().GetString("vm")
	entity, err := resolveEntity(rest, href, vmName)
	if err != nil {
		return err
	}
	performed, err := action(rest, entity)
	if err != nil {
		return err
	}
	if !performed {
		fmt.Fprintf(cmd.OutOrStdout(), "declined, %q left untouched\n", entity.Name)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "snapshot of %q %s\n", entity.Name, verb)
	return nil
}
