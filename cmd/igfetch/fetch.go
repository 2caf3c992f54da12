package main

import (
	"io"
	"strings"

	"igfetch/pkg/auth"
	"igfetch/pkg/config"
	"igfetch/pkg/fetcher"
	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"
	"igfetch/pkg/post"
)

// Messages for failures detected before any network call
const (
	msgMissingURL = "URL não fornecida"
	msgInvalidURL = "URL inválida do Instagram"
)

// runFetch resolves a post URL, fetches the post, and writes the result
// envelope to out. Returns the process exit code.
func runFetch(args []string, out io.Writer) int {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return fail(out, msgMissingURL)
	}

	rawURL := strings.TrimSpace(args[0])
	if !instagram.IsPostURL(rawURL) {
		return fail(out, msgInvalidURL)
	}

	shortcode, err := instagram.ExtractShortcode(rawURL)
	if err != nil {
		return fail(out, msgInvalidURL)
	}

	cfg, err := config.Load(configFile, commandLineFlags())
	if err != nil {
		return fail(out, err.Error())
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fail(out, err.Error())
	}
	log := logger.GetLogger()

	applyStoredCredentials(cfg, log)

	log.DebugWithFields("fetching post", map[string]interface{}{
		"url":       rawURL,
		"shortcode": shortcode,
	})

	p, err := fetcher.New(cfg).FetchPost(shortcode)
	if err != nil {
		log.ErrorWithFields("fetch failed", map[string]interface{}{
			"shortcode": shortcode,
			"error":     err.Error(),
		})
		return fail(out, fetcher.UserMessage(err))
	}

	if err := post.Success(p).WriteJSON(out); err != nil {
		log.WithError(err).Error("failed to write result")
		return 1
	}

	return 0
}

// fail writes a failure envelope and returns the failure exit code
func fail(out io.Writer, message string) int {
	_ = post.Failure(message).WriteJSON(out)
	return 1
}

// commandLineFlags collects the flags that override configuration
func commandLineFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if timeoutSeconds > 0 {
		flags["timeout"] = timeoutSeconds
	}
	if keepFiles {
		flags["keep-files"] = true
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

// applyStoredCredentials fills in session credentials from the credential
// stores when the configuration carries none. Failures are logged and
// ignored: public posts work anonymously.
func applyStoredCredentials(cfg *config.Config, log logger.Logger) {
	if cfg.Instagram.SessionID != "" {
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		log.WithError(err).Debug("credential manager unavailable")
		return
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
	} else {
		account, err = manager.RetrieveDefault()
	}
	if err != nil {
		log.WithError(err).Debug("no stored credentials")
		return
	}

	cfg.Instagram.SessionID = account.SessionID
	cfg.Instagram.CSRFToken = account.CSRFToken
	if account.UserAgent != "" {
		cfg.Instagram.UserAgent = account.UserAgent
	}

	log.WithField("account", account.Username).Debug("using stored credentials")
}
