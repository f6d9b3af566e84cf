package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/ai"
	"github.com/immodash/immodash/pkg/app"
	"github.com/immodash/immodash/pkg/storage"
)

// aiConfig builds the provider config from viper and the --proxy flag.
func aiConfig(cmd *cobra.Command) (ai.Config, error) {
	cfg := ai.Config{
		Provider: viper.GetString("ai.provider"),
		APIKey:   viper.GetString("ai.api_key"),
		Model:    viper.GetString("ai.model"),
		Endpoint: viper.GetString("ai.endpoint"),
		ProxyURL: viper.GetString("ai.proxy_url"),
	}

	proxy, _ := cmd.Flags().GetString("proxy")
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return cfg, fmt.Errorf("invalid proxy URL: %w", err)
		}
		cfg.HTTPClient = &http.Client{Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)}}
	}
	return cfg, nil
}

// openApp opens the store and returns a loaded controller. The caller closes
// the returned store.
func openApp(cmd *cobra.Command) (*app.Controller, *storage.DB, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := storage.Open(viper.GetString("store.path"))
	if err != nil {
		return nil, nil, fmt.Errorf("could not open store: %w", err)
	}

	cfg, err := aiConfig(cmd)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	gateway, err := ai.NewGateway(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	ctrl := app.New(db, gateway)
	if err := ctrl.Load(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("could not load store: %w", err)
	}
	return ctrl, db, nil
}

// confirmAction returns true when --yes was passed or the user answers y.
func confirmAction(cmd *cobra.Command, prompt string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes" || answer == "o" || answer == "oui"
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// reportError prints the user-facing message for err and returns it for the
// exit status.
func reportError(err error) error {
	if err == nil {
		return nil
	}
	utils.Log.Debugf("command failed: %v", err)
	return fmt.Errorf("%s", ai.UserMessage(err))
}
