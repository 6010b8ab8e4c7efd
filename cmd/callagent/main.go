// Command callagent runs one voice interview from the terminal: it loads the
// interview through the API, holds the call until it ends or Ctrl-C hangs up,
// and prints the scored feedback.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lshigami/IntelliHire/config"
	"github.com/lshigami/IntelliHire/internal/call"
	"github.com/lshigami/IntelliHire/internal/client"
	"github.com/lshigami/IntelliHire/internal/logger"
	"github.com/lshigami/IntelliHire/internal/voice"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	logger.Init()

	flags := pflag.NewFlagSet("callagent", pflag.ExitOnError)
	flags.String("mode", string(call.ModeInterview), "call mode: generate or interview")
	flags.String("user-id", "", "caller's user id (required)")
	flags.String("user-name", "", "name the agent addresses the caller by (default: profile name)")
	flags.String("interview-id", "", "interview to run (interview mode)")
	flags.String("feedback-id", "", "overwrite this feedback record instead of creating one")
	flags.String("api-base-url", "", "IntelliHire API base URL (default: API_BASE_URL)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("Invalid flags")
	}
	if err := viper.BindPFlags(flags); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind flags")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if v := viper.GetString("api-base-url"); v != "" {
		cfg.API.BaseURL = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("Call failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	api := client.New(cfg.API.BaseURL)

	sess, err := buildSession(ctx, api)
	if err != nil {
		return err
	}

	ctrl := call.NewController(
		voice.NewWebsocketDialer(cfg.Voice.URL, cfg.Voice.PublicKey),
		api,
		call.Config{
			GenerateAgentID:     cfg.Voice.GenerateWorkflowID,
			InterviewTemplateID: cfg.Voice.InterviewTemplateID,
		},
	)
	ctrl.OnStatusChange(func(s call.Status) {
		log.Info().Str("status", string(s)).Msg("Call status")
	})
	ctrl.OnFeedback(func(id string, err error) {
		if err != nil {
			log.Error().Err(err).Msg("Feedback generation failed")
			return
		}
		log.Info().Str("feedbackID", id).Msg("Feedback generated")
	})

	if err := ctrl.Start(ctx, sess); err != nil {
		return err
	}

	ended := make(chan struct{})
	go func() {
		ctrl.Wait()
		close(ended)
	}()
	select {
	case <-ctx.Done():
		log.Info().Msg("Hanging up...")
		ctrl.Hangup()
		<-ended
	case <-ended:
	}

	state := ctrl.State()
	if state.Status == call.StatusError {
		return fmt.Errorf("call ended with error: %s", state.LastError)
	}
	if !state.FeedbackReady {
		if state.LastError != "" {
			return fmt.Errorf("feedback not available: %s", state.LastError)
		}
		log.Info().Str("status", string(state.Status)).Int("turns", len(state.Transcript)).Msg("Call ended without feedback")
		return nil
	}

	feedback, err := api.GetFeedback(context.Background(), sess.InterviewID, sess.UserID)
	if err != nil {
		return fmt.Errorf("fetch feedback: %w", err)
	}
	out, err := json.MarshalIndent(feedback, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func buildSession(ctx context.Context, api *client.Client) (call.Session, error) {
	sess := call.Session{
		Mode:        call.Mode(viper.GetString("mode")),
		UserID:      viper.GetString("user-id"),
		UserName:    viper.GetString("user-name"),
		InterviewID: viper.GetString("interview-id"),
		FeedbackID:  viper.GetString("feedback-id"),
	}
	if sess.UserID == "" {
		return sess, fmt.Errorf("--user-id is required")
	}
	switch sess.Mode {
	case call.ModeGenerate:
	case call.ModeInterview:
		if sess.InterviewID == "" {
			return sess, fmt.Errorf("--interview-id is required in interview mode")
		}
		interview, err := api.GetInterview(ctx, sess.InterviewID)
		if err != nil {
			return sess, fmt.Errorf("load interview: %w", err)
		}
		sess.Questions = interview.Questions
	default:
		return sess, fmt.Errorf("unknown mode %q", sess.Mode)
	}

	if sess.UserName == "" {
		sess.UserName = "Candidate"
		if user, err := api.GetUser(ctx, sess.UserID); err == nil && user != nil && user.FullName != "" {
			sess.UserName = user.FullName
		} else if err != nil {
			log.Warn().Err(err).Str("userID", sess.UserID).Msg("Could not load profile, using default name")
		}
	}
	return sess, nil
}
