package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/40acres/lnswapd/config"
	"github.com/40acres/lnswapd/daemon"
	"github.com/40acres/lnswapd/database"
	"github.com/40acres/lnswapd/database/models"
	"github.com/40acres/lnswapd/lightning"
	"github.com/40acres/lnswapd/lightning/lnd"
	"github.com/40acres/lnswapd/money"
	"github.com/40acres/lnswapd/utils"

	_ "github.com/40acres/lnswapd/logging"
	_ "github.com/lib/pq"
)

func validatePort(port int64) (uint32, error) {
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("port number %d is invalid: must be between 0 and 65535", port)
	}

	return uint32(port), nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info("Received signal, shutting down")
		cancel()
	}()

	app := &cli.Command{
		Name:  "lnswapd",
		Usage: "A CLI for swapping funds between lightning nodes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the node configuration file",
				Value: config.DefaultPath,
			},
			&cli.BoolFlag{
				Name:  "skip-tls-verify",
				Usage: "Skip TLS certificate validation when talking to nodes (self-signed local setups)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Swap store backend: file or postgres",
				Value: "file",
			},
			&cli.StringFlag{
				Name:  "swaps-file",
				Usage: "Path of the JSON swap store (file backend)",
				Value: "swaps.json",
			},
			&cli.StringFlag{
				Name:  "secrets-file",
				Usage: "Path of the owner-only settlement secret vault",
				Value: "swaps.secrets.json",
			},
			&cli.StringFlag{
				Name:  "db-host",
				Usage: "Database host",
				Value: "embedded",
			},
			&cli.StringFlag{
				Name:  "db-user",
				Usage: "Database username",
				Value: "myuser",
			},
			&cli.StringFlag{
				Name:  "db-password",
				Usage: "Database password",
				Value: "mypassword",
			},
			&cli.StringFlag{
				Name:  "db-name",
				Usage: "Database name",
				Value: "postgres",
			},
			&cli.IntFlag{
				Name:  "db-port",
				Usage: "Database port",
				Value: 5433,
			},
			&cli.StringFlag{
				Name:  "db-data-path",
				Usage: "Database path",
				Value: "./.data",
			},
			&cli.BoolFlag{
				Name:  "db-keep-alive",
				Usage: "Keep the database running after the command finishes for embedded databases",
				Value: false,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "create-swap",
				Usage: "Create a swap and request its invoice on the receiving node",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Alias of the paying node",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Alias of the receiving node",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "amount",
						Usage:    "Swap amount in sats",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "expiry",
						Usage: "Swap expiry in minutes",
						Value: 30,
					},
					&cli.BoolFlag{
						Name:  "hodl",
						Usage: "Use a hodl invoice settled by this daemon instead of a plain one",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					orchestrator, closeAll, err := buildOrchestrator(cmd)
					if err != nil {
						return err
					}
					defer closeAll()

					amount, err := utils.SafeInt64ToUint64(cmd.Int("amount"))
					if err != nil {
						return err
					}

					swap, err := orchestrator.CreateSwap(ctx,
						cmd.String("from"),
						cmd.String("to"),
						amount,
						time.Duration(cmd.Int("expiry"))*time.Minute,
						cmd.Bool("hodl"),
					)
					if err != nil {
						return err
					}

					return printSwap(swap)
				},
			},
			{
				Name:  "execute-swap",
				Usage: "Pay a swap's invoice and verify the settlement",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "swap-id",
						Usage:    "Swap to execute",
						Required: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					orchestrator, closeAll, err := buildOrchestrator(cmd)
					if err != nil {
						return err
					}
					defer closeAll()

					result, err := orchestrator.ExecuteSwap(ctx, cmd.String("swap-id"))
					if err != nil {
						return err
					}
					if !result.Success {
						log.Warn("payment failed, see swap outcome")
					}

					return printSwap(result.Swap)
				},
			},
			{
				Name:  "list-swaps",
				Usage: "List swaps, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only show swaps with this status",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					orchestrator, closeAll, err := buildOrchestrator(cmd)
					if err != nil {
						return err
					}
					defer closeAll()

					var filter *models.SwapStatus
					if raw := cmd.String("status"); raw != "" {
						status := models.SwapStatus(raw)
						if !status.IsValid() {
							return fmt.Errorf("invalid status %q", raw)
						}
						filter = &status
					}

					swaps, err := orchestrator.ListSwaps(ctx, filter)
					if err != nil {
						return err
					}

					for _, swap := range swaps {
						outcome := "-"
						if swap.Outcome != nil {
							outcome = swap.Outcome.String()
						}
						fmt.Printf("%s  %s -> %s  %s  %s  %s\n",
							swap.SwapID, swap.FromNode, swap.ToNode,
							money.Money(swap.AmountSats),
							swap.Status, outcome)
					}

					return nil
				},
			},
			{
				Name:  "swap-status",
				Usage: "Show one swap record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "swap-id",
						Usage:    "Swap to show",
						Required: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					orchestrator, closeAll, err := buildOrchestrator(cmd)
					if err != nil {
						return err
					}
					defer closeAll()

					swap, err := orchestrator.GetSwap(ctx, cmd.String("swap-id"))
					if err != nil {
						return err
					}

					return printSwap(swap)
				},
			},
			{
				Name:  "check-balances",
				Usage: "Show onchain and channel balances of every configured node",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					orchestrator, closeAll, err := buildOrchestrator(cmd)
					if err != nil {
						return err
					}
					defer closeAll()

					balances, err := orchestrator.CheckBalances(ctx)
					if err != nil {
						return err
					}

					for _, balance := range balances {
						fmt.Printf("%s: onchain %s, channel local %s, channel remote %s\n",
							balance.Alias,
							money.Money(balance.OnchainSats),
							money.Money(balance.ChannelLocalSats),
							money.Money(balance.ChannelRemoteSats))
					}

					return nil
				},
			},
			{
				Name:  "cleanup",
				Usage: "Expire overdue swaps and optionally cancel a node's open invoices",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cancel-invoices",
						Usage: "Also cancel all cancelable invoices on this node alias",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					orchestrator, closeAll, err := buildOrchestrator(cmd)
					if err != nil {
						return err
					}
					defer closeAll()

					expired, err := orchestrator.ExpireSweep(ctx)
					if err != nil {
						return err
					}
					fmt.Printf("expired %d swap(s)\n", expired)

					if alias := cmd.String("cancel-invoices"); alias != "" {
						summary, err := orchestrator.CancelNodeInvoices(ctx, alias)
						if err != nil {
							return err
						}
						fmt.Printf("invoices on %s: %d canceled, %d skipped, %d failed\n",
							alias, summary.Canceled, summary.Skipped, summary.Failed)
					}

					return nil
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// buildOrchestrator assembles the orchestrator from the node config and the
// selected store backend. The returned closer shuts the store down.
func buildOrchestrator(cmd *cli.Command) (*daemon.Orchestrator, func(), error) {
	fs := afero.NewOsFs()

	cfg, err := config.Load(fs, cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}

	clients := make(map[string]lightning.Client, len(cfg.Aliases()))
	for _, alias := range cfg.Aliases() {
		node, err := cfg.Node(alias)
		if err != nil {
			return nil, nil, err
		}
		macaroonHex, err := cfg.MacaroonHex(alias, config.AdminMacaroon)
		if err != nil {
			return nil, nil, err
		}

		client, err := lnd.NewClient(
			lnd.WithEndpoint(node.Endpoint()),
			lnd.WithMacaroonHex(macaroonHex),
			lnd.WithInsecureSkipVerify(cmd.Bool("skip-tls-verify")),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("node %s: %w", alias, err)
		}
		clients[alias] = client
	}

	repository, closeStore, err := buildRepository(cmd, fs)
	if err != nil {
		return nil, nil, err
	}

	// Each command runs in its own process, so settlement secrets must
	// live in the vault file, not in process memory.
	vault := daemon.NewFileSecretVault(fs, cmd.String("secrets-file"))

	return daemon.NewOrchestrator(repository, clients, daemon.WithSecretStore(vault)), closeStore, nil
}

func buildRepository(cmd *cli.Command, fs afero.Fs) (database.SwapRepository, func(), error) {
	switch backend := cmd.String("store"); backend {
	case "file":
		return database.NewFileStore(fs, cmd.String("swaps-file")), func() {}, nil
	case "postgres":
		port, err := validatePort(cmd.Int("db-port"))
		if err != nil {
			return nil, nil, err
		}

		db, closeDb, err := database.NewDatabase(
			cmd.String("db-user"),
			cmd.String("db-password"),
			cmd.String("db-name"),
			port,
			cmd.String("db-data-path"),
			cmd.String("db-host"),
			cmd.Bool("db-keep-alive"),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("❌ Could not connect to database: %w", err)
		}
		if err := db.MigrateDatabase(); err != nil {
			if closeErr := closeDb(); closeErr != nil {
				log.Errorf("❌ Could not close database: %v", closeErr)
			}

			return nil, nil, err
		}

		return db, func() {
			if err := closeDb(); err != nil {
				log.Errorf("❌ Could not close database: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func printSwap(swap *models.SwapOrder) error {
	raw, err := json.MarshalIndent(swap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))

	return nil
}
