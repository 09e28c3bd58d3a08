package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samkirk/gca-bridge/internal/authclient"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Code Assist via OAuth2",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := authclient.NewTokenStore(authclient.DefaultTokenPath())
		oauthCfg := authclient.OAuthConfig(os.Getenv("GCA_OAUTH_CLIENT_ID"), os.Getenv("GCA_OAUTH_CLIENT_SECRET"), "")
		auth, err := authclient.NewClient(oauthCfg, store)
		if err != nil {
			return err
		}

		registry := authclient.NewRegistry()
		return authclient.Login(cmd.Context(), auth, registry, authclient.LoginOptions{
			NoBrowser: GetNoBrowser(),
			OnAuthURL: func(url string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Open the following URL to authenticate:\n%s\n", url)
			},
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
