package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dotcommander/kvd/internal/client"
	"github.com/dotcommander/kvd/internal/output"
)

// addKeyFlag registers the --key flag shared by every key-addressed command.
func addKeyFlag(fs *pflag.FlagSet) {
	fs.StringP("key", "k", "", "Key (required)")
}

// NewPingCmd creates the ping command.
func NewPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the daemon is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(c *client.Client) error {
				pong, err := c.Ping()
				if err != nil {
					return err
				}
				type resp struct {
					Result string `json:"result"`
				}
				return output.PrintSuccess(resp{Result: pong})
			})
		},
	}
}

// NewGetCmd creates the get command.
func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get the value stored at a key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			return withClient(func(c *client.Client) error {
				value, err := c.Get(key)
				if err != nil {
					return err
				}
				type resp struct {
					Key   string `json:"key"`
					Value any    `json:"value"`
				}
				return output.PrintSuccess(resp{Key: key, Value: value})
			})
		},
	}

	addKeyFlag(cmd.Flags())
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

// NewSetCmd creates the set command.
func NewSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a key to a value, optionally with a TTL",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			raw, _ := cmd.Flags().GetString("value")
			ttl, _ := cmd.Flags().GetInt64("ttl")

			// Values are JSON payloads; a value that does not parse as JSON
			// is stored as a plain string.
			var value any
			if err := json.Unmarshal([]byte(raw), &value); err != nil {
				value = raw
			}

			return withClient(func(c *client.Client) error {
				if err := c.Set(key, value, ttl); err != nil {
					return err
				}
				type resp struct {
					Key        string `json:"key"`
					TTLSeconds int64  `json:"ttl_seconds,omitempty"`
				}
				return output.PrintSuccess(resp{Key: key, TTLSeconds: ttl})
			})
		},
	}

	addKeyFlag(cmd.Flags())
	cmd.Flags().StringP("value", "V", "", "Value, parsed as JSON when possible (required)")
	cmd.Flags().Int64P("ttl", "t", 0, "Time-to-live in seconds (0 = persistent)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

// NewDeleteCmd creates the delete command.
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			return withClient(func(c *client.Client) error {
				if err := c.Delete(key); err != nil {
					return err
				}
				type resp struct {
					Key string `json:"key"`
				}
				return output.PrintSuccess(resp{Key: key})
			})
		},
	}

	addKeyFlag(cmd.Flags())
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

// NewIncrCmd creates the incr command.
func NewIncrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incr",
		Short: "Increment the integer stored at a key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			by, _ := cmd.Flags().GetInt64("by")
			return withClient(func(c *client.Client) error {
				value, err := c.Incr(key, by)
				if err != nil {
					return err
				}
				type resp struct {
					Key   string `json:"key"`
					Value int64  `json:"value"`
				}
				return output.PrintSuccess(resp{Key: key, Value: value})
			})
		},
	}

	addKeyFlag(cmd.Flags())
	cmd.Flags().Int64P("by", "b", 1, "Amount to add")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

// NewDecrCmd creates the decr command.
func NewDecrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decr",
		Short: "Decrement the integer stored at a key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			return withClient(func(c *client.Client) error {
				value, err := c.Decr(key)
				if err != nil {
					return err
				}
				type resp struct {
					Key   string `json:"key"`
					Value int64  `json:"value"`
				}
				return output.PrintSuccess(resp{Key: key, Value: value})
			})
		},
	}

	addKeyFlag(cmd.Flags())
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

// NewTTLCmd creates the ttl command.
func NewTTLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ttl",
		Short: "Show the remaining TTL of a key in seconds",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			return withClient(func(c *client.Client) error {
				remaining, err := c.TTL(key)
				if err != nil {
					return err
				}
				type resp struct {
					Key        string `json:"key"`
					TTLSeconds int64  `json:"ttl_seconds"`
				}
				return output.PrintSuccess(resp{Key: key, TTLSeconds: remaining})
			})
		},
	}

	addKeyFlag(cmd.Flags())
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

// NewExpireCmd creates the expire command.
func NewExpireCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Reset the TTL of an existing key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			ttl, _ := cmd.Flags().GetInt64("ttl")
			return withClient(func(c *client.Client) error {
				if err := c.Expire(key, ttl); err != nil {
					return err
				}
				type resp struct {
					Key        string `json:"key"`
					TTLSeconds int64  `json:"ttl_seconds"`
				}
				return output.PrintSuccess(resp{Key: key, TTLSeconds: ttl})
			})
		},
	}

	addKeyFlag(cmd.Flags())
	cmd.Flags().Int64P("ttl", "t", 0, "Time-to-live in seconds (0 = persistent, required)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("ttl")

	return cmd
}
