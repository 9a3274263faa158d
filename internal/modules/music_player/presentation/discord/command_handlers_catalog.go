package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrbot/internal/bot"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// HandleSearch handles the /search command, fanning a query out across
// every registered source plugin and listing the ranked results.
func (h *CommandHandlers) HandleSearch(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	var query, sourceFilter string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "query":
			query = opt.StringValue()
		case "source":
			sourceFilter = opt.StringValue()
		}
	}

	output, err := h.trackLoader.SearchSources(ctx, usecases.SearchSourcesInput{
		Query:        query,
		SourceFilter: sourceFilter,
		Limit:        10,
	})
	if err != nil {
		return respondError(r, err.Error())
	}
	if len(output.Tracks) == 0 {
		return respondError(r, "No results found.")
	}

	var sb strings.Builder
	for idx, track := range output.Tracks {
		writeTrackLine(&sb, idx+1, usecases.TrackInfo{
			Title:  track.Title,
			Artist: track.Artist,
			URI:    track.URI,
		})
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       fmt.Sprintf("Results for %q", query),
					Description: sb.String(),
					Color:       colorSuccess,
				},
			},
		},
	})
}

// HandleSources handles the /sources command, listing every enabled
// source plugin.
func (h *CommandHandlers) HandleSources(
	_ *discordgo.Session,
	_ *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	names, err := h.trackLoader.EnabledSources()
	if err != nil {
		return respondError(r, err.Error())
	}
	if len(names) == 0 {
		return respondError(r, "No sources are enabled.")
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Enabled sources",
					Description: strings.Join(names, ", "),
					Color:       colorSuccess,
				},
			},
		},
	})
}

// HandlePlaylist handles the /playlist command, dispatching to its
// list, import, and play subcommands.
func (h *CommandHandlers) HandlePlaylist(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "A subcommand is required.")
	}

	switch options[0].Name {
	case "list":
		return h.handlePlaylistList(s, i, r)
	case "import":
		return h.handlePlaylistImport(s, i, r, options[0].Options)
	case "play":
		return h.handlePlaylistPlay(s, i, r, options[0].Options)
	default:
		return respondError(r, "Unknown playlist subcommand.")
	}
}

func (h *CommandHandlers) handlePlaylistList(
	_ *discordgo.Session,
	_ *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	summaries, err := h.trackLoader.ListPlaylists(ctx)
	if err != nil {
		return respondError(r, err.Error())
	}
	if len(summaries) == 0 {
		return respondError(r, "No playlists have been saved yet.")
	}

	var sb strings.Builder
	for idx, summary := range summaries {
		fmt.Fprintf(&sb, "%d\\. **%s** - %d tracks\n", idx+1, summary.Name, summary.TrackCount)
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Saved playlists",
					Description: sb.String(),
					Color:       colorSuccess,
				},
			},
		},
	})
}

func (h *CommandHandlers) handlePlaylistImport(
	_ *discordgo.Session,
	_ *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	ctx := context.Background()

	var url string
	for _, opt := range options {
		if opt.Name == "url" {
			url = opt.StringValue()
		}
	}

	pl, err := h.trackLoader.ImportPlaylist(ctx, usecases.ImportPlaylistInput{
		Source:  url,
		IsLocal: false,
		Persist: true,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: fmt.Sprintf("Imported **%s** with %d tracks.", pl.Name, len(pl.Tracks)),
					Color:       colorSuccess,
				},
			},
		},
	})
}

func (h *CommandHandlers) handlePlaylistPlay(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}
	requesterID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	var name string
	for _, opt := range options {
		if opt.Name == "name" {
			name = opt.StringValue()
		}
	}

	id := domain.PlaylistID(name)
	if summaries, err := h.trackLoader.ListPlaylists(ctx); err == nil {
		for _, s := range summaries {
			if s.Name == name {
				id = domain.PlaylistID(s.ID)
				break
			}
		}
	}

	pl, err := h.trackLoader.LoadStoredPlaylist(ctx, id)
	if err != nil {
		return respondError(r, err.Error())
	}

	trackIDs := make([]string, 0, len(pl.Tracks))
	for _, track := range pl.Tracks {
		trackIDs = append(trackIDs, string(track.ID))
	}

	addOutput, err := h.queue.Add(ctx, usecases.QueueAddInput{
		GuildID:     guildID,
		TrackIDs:    trackIDs,
		RequesterID: requesterID,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: fmt.Sprintf("Queued %d tracks from **%s**.", addOutput.Count, pl.Name),
					Color:       colorSuccess,
				},
			},
		},
	})
}

// HandleCache handles the /cache command, dispatching to its status,
// clear, and cleanup subcommands.
func (h *CommandHandlers) HandleCache(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "A subcommand is required.")
	}

	ctx := context.Background()

	switch options[0].Name {
	case "status":
		stats, err := h.trackLoader.CacheStats(ctx)
		if err != nil {
			return respondError(r, err.Error())
		}
		return r.Respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{
					{
						Title: "Cache status",
						Description: fmt.Sprintf(
							"%d files, %.1f MiB used (%.1f%% of budget).",
							stats.Files,
							float64(stats.Bytes)/(1<<20),
							stats.UsagePercent,
						),
						Color: colorSuccess,
					},
				},
			},
		})
	case "clear":
		if err := h.trackLoader.ClearCache(ctx); err != nil {
			return respondError(r, err.Error())
		}
		return r.Respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{
					{Description: "Cache cleared.", Color: colorSuccess},
				},
			},
		})
	case "cleanup":
		if err := h.trackLoader.CleanupCache(ctx); err != nil {
			return respondError(r, err.Error())
		}
		return r.Respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{
					{Description: "Orphaned cache entries removed.", Color: colorSuccess},
				},
			},
		})
	default:
		return respondError(r, "Unknown cache subcommand.")
	}
}
