package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/jon4hz/modhub/internal/api/models"
	"github.com/jon4hz/modhub/internal/catalog"
	"github.com/spf13/cobra"
)

var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "Browse, upload and moderate mods",
}

var modsListFlags struct {
	Search   string
	Game     string
	Category string
	Status   string
}

var modsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mods of the catalog or the moderation queue",
	Example: `modhub mods list --game Minecraft
modhub mods list --search texture
modhub mods list --status pending`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		q := catalog.Query{Search: modsListFlags.Search, Game: modsListFlags.Game, Category: modsListFlags.Category}

		var mods []models.Mod
		switch models.ModStatus(modsListFlags.Status) {
		case "", models.ModStatusApproved:
			mods, err = c.store.Query(cmd.Context(), q)
			if c.store.FromFallback() {
				log.Warn("catalog server unavailable, showing featured mods")
			}
		case models.ModStatusPending:
			mods, err = c.moderation.Pending(cmd.Context(), c.session)
			if err == nil {
				mods, err = q.Apply(cmd.Context(), mods)
			}
		default:
			return fmt.Errorf("unknown status %q", modsListFlags.Status)
		}
		if err != nil {
			return err
		}

		printMods(cmd.OutOrStdout(), mods)
		return nil
	},
}

var modsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a mod with its recommendations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := catalog.ParseID(args[0])
		if err != nil {
			return err
		}
		c, err := newCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		mod, err := c.store.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		recs, err := c.store.Recommendations(cmd.Context(), id)
		if err != nil {
			return err
		}

		printMod(cmd.OutOrStdout(), mod)
		if len(recs) > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Similar mods:")
			printMods(cmd.OutOrStdout(), recs)
		}
		return nil
	},
}

var modsUploadFlags models.Upload

var modsUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Submit a new mod for moderation",
	Example: `modhub mods upload --title "HD Textures" --game Minecraft --category Графика \
  --description "Sharper blocks" --version 1.0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		mod, err := c.moderation.Submit(cmd.Context(), c.session, modsUploadFlags)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mod %d submitted for moderation\n", mod.ID)
		return nil
	},
}

var modsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending mod",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := catalog.ParseID(args[0])
		if err != nil {
			return err
		}
		c, err := newCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		mod, err := c.moderation.Approve(cmd.Context(), c.session, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mod %d approved\n", mod.ID)
		return nil
	},
}

var modsRejectReason string

var modsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending mod",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := catalog.ParseID(args[0])
		if err != nil {
			return err
		}
		c, err := newCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		mod, err := c.moderation.Reject(cmd.Context(), c.session, id, modsRejectReason)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mod %d rejected\n", mod.ID)
		return nil
	},
}

func init() {
	modsListCmd.Flags().StringVarP(&modsListFlags.Search, "search", "s", "", "Search in mod titles")
	modsListCmd.Flags().StringVarP(&modsListFlags.Game, "game", "g", "", "Only show mods for this game")
	modsListCmd.Flags().StringVar(&modsListFlags.Category, "category", "", "Only show mods of this category")
	modsListCmd.Flags().StringVar(&modsListFlags.Status, "status", "", "approved (default) or pending")

	f := modsUploadCmd.Flags()
	f.StringVar(&modsUploadFlags.Title, "title", "", "Title of the mod")
	f.StringVar(&modsUploadFlags.Game, "game", "", "Game the mod is made for")
	f.StringVar(&modsUploadFlags.Category, "category", "", "Category of the mod")
	f.StringVar(&modsUploadFlags.Description, "description", "", "Description of the mod")
	f.StringVar(&modsUploadFlags.Version, "version", "", "Version of the mod")
	f.StringVar(&modsUploadFlags.Requirements, "requirements", "", "Requirements of the mod")
	f.StringVar(&modsUploadFlags.ImageEmoji, "image", "", "Emoji shown as the mod image")

	modsRejectCmd.Flags().StringVar(&modsRejectReason, "reason", "", "Reason shown to the author")

	modsCmd.AddCommand(modsListCmd, modsShowCmd, modsUploadCmd, modsApproveCmd, modsRejectCmd)
	rootCmd.AddCommand(modsCmd)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func printMods(w io.Writer, mods []models.Mod) {
	if len(mods) == 0 {
		fmt.Fprintln(w, "No mods found")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "", "TITLE", "GAME", "CATEGORY", "AUTHOR", "DOWNLOADS", "RATING", "STATUS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, m := range mods {
		t.Row(
			strconv.FormatInt(m.ID, 10),
			m.Image,
			m.Title,
			m.Game,
			m.Category,
			m.Author,
			models.ShortCount(m.Downloads),
			strconv.FormatFloat(m.Rating, 'f', 1, 64),
			string(m.Status),
		)
	}
	fmt.Fprintln(w, t.String())
}

func printMod(w io.Writer, m models.Mod) {
	v := models.ToModView(m)
	fmt.Fprintf(w, "%s %s (#%d)\n", m.Image, m.Title, m.ID)
	fmt.Fprintf(w, "  Game:         %s\n", m.Game)
	fmt.Fprintf(w, "  Category:     %s\n", m.Category)
	fmt.Fprintf(w, "  Author:       %s\n", m.Author)
	fmt.Fprintf(w, "  Version:      %s\n", m.Version)
	fmt.Fprintf(w, "  Downloads:    %s\n", humanize.Comma(int64(m.Downloads)))
	fmt.Fprintf(w, "  Rating:       %.1f (%d reviews)\n", m.Rating, m.Reviews)
	if v.UpdatedAgo != "" {
		fmt.Fprintf(w, "  Updated:      %s\n", v.UpdatedAgo)
	}
	if m.Requirements != "" {
		fmt.Fprintf(w, "  Requirements: %s\n", m.Requirements)
	}
	if desc := strings.TrimSpace(m.Description); desc != "" {
		fmt.Fprintf(w, "\n%s\n", desc)
	}
}
