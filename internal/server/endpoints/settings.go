package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/sheetindex/internal/api"
	"github.com/jackzampolin/sheetindex/internal/config"
	"github.com/jackzampolin/sheetindex/internal/svcctx"
)

// SettingsResponse maps setting keys to their entries.
type SettingsResponse struct {
	Settings map[string]config.Entry `json:"settings"`
}

// SettingResponse is one setting after a read or write.
type SettingResponse struct {
	Entry *config.Entry `json:"entry,omitempty"`
	// ProvidersReloaded is set when the write rebuilt the provider registry.
	ProvidersReloaded bool `json:"providers_reloaded,omitempty"`
}

// UpdateSettingRequest is the body of PUT /api/settings/{key}.
type UpdateSettingRequest struct {
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
}

// settingKey reads and checks the {key} path value.
func settingKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key, err := url.PathUnescape(r.PathValue("key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid key encoding")
		return "", false
	}
	if err := config.ValidateKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return key, true
}

func settingsStore(w http.ResponseWriter, r *http.Request) (config.Store, bool) {
	store := svcctx.ConfigStoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "config store not available")
		return nil, false
	}
	return store, true
}

// writeSetting replies with the stored entry for key.
func writeSetting(w http.ResponseWriter, r *http.Request, store config.Store, key string, reloaded bool) {
	entry, err := store.Get(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SettingResponse{Entry: entry, ProvidersReloaded: reloaded})
}

// ListSettingsEndpoint handles GET /api/settings.
type ListSettingsEndpoint struct{}

func (e *ListSettingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings", e.handler
}

func (e *ListSettingsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List settings
//	@Description	Runtime settings, optionally only those under a key prefix
//	@Tags			settings
//	@Produce		json
//	@Param			prefix	query		string	false	"Key prefix such as identify. or providers.openai."
//	@Success		200		{object}	SettingsResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/settings [get]
func (e *ListSettingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := settingsStore(w, r)
	if !ok {
		return
	}

	var entries map[string]config.Entry
	var err error
	if prefix := r.URL.Query().Get("prefix"); prefix != "" {
		entries, err = store.GetByPrefix(r.Context(), prefix)
	} else {
		entries, err = store.GetAll(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{Settings: entries})
}

func (e *ListSettingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List settings sorted by key",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := NewClient(getServerURL()).Settings(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			return api.Output(entries)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only keys under this prefix (e.g. 'identify.')")
	return cmd
}

// GetSettingEndpoint handles GET /api/settings/{key...}.
type GetSettingEndpoint struct{}

func (e *GetSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings/{key...}", e.handler
}

func (e *GetSettingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a setting
//	@Tags			settings
//	@Produce		json
//	@Param			key	path		string	true	"Setting key (URL-encoded)"
//	@Success		200	{object}	SettingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/settings/{key} [get]
func (e *GetSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, ok := settingKey(w, r)
	if !ok {
		return
	}
	store, ok := settingsStore(w, r)
	if !ok {
		return
	}

	entry, err := store.Get(r.Context(), key)
	switch {
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	case entry == nil:
		writeError(w, http.StatusNotFound, "setting not found: "+key)
	default:
		writeJSON(w, http.StatusOK, SettingResponse{Entry: entry})
	}
}

func (e *GetSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := NewClient(getServerURL()).Setting(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return api.Output(resp.Entry)
		},
	}
}

// UpdateSettingEndpoint handles PUT /api/settings/{key...}.
type UpdateSettingEndpoint struct{}

func (e *UpdateSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/settings/{key...}", e.handler
}

func (e *UpdateSettingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Update a setting
//	@Description	Checks the value against the setting's type and range. Provider edits rebuild the provider registry.
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string					true	"Setting key (URL-encoded)"
//	@Param			body	body		UpdateSettingRequest	true	"New value"
//	@Success		200		{object}	SettingResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/settings/{key} [put]
func (e *UpdateSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, ok := settingKey(w, r)
	if !ok {
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var req UpdateSettingRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}
	if err := config.CheckValue(key, req.Value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if n, isNum := req.Value.(json.Number); isNum {
		req.Value, _ = n.Float64()
	}

	store, ok := settingsStore(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	description := req.Description
	if description == "" {
		if existing, err := store.Get(ctx, key); err == nil && existing != nil {
			description = existing.Description
		} else if def := config.GetDefault(key); def != nil {
			description = def.Description
		}
	}

	if err := store.Set(ctx, key, req.Value, description); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeSetting(w, r, store, key, reloadProviders(r, key))
}

func (e *UpdateSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	var value, description string
	cmd := &cobra.Command{
		Use:   "set <key>",
		Short: "Change a setting",
		Long: `Change a setting on the running server. The value is parsed as JSON
first, so numbers and booleans keep their type; anything else is sent as a
string. Provider settings take effect on the next identify request.`,
		Example: `  sheetindex api settings set identify.retry_attempts --value 5
  sheetindex api settings set defaults.reader --value openai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var parsed any
			if err := json.Unmarshal([]byte(value), &parsed); err != nil {
				parsed = value
			}
			resp, err := NewClient(getServerURL()).SetSetting(cmd.Context(), args[0], parsed, description)
			if err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "New value (JSON or string)")
	cmd.Flags().StringVar(&description, "description", "", "Description (optional)")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// ResetSettingEndpoint handles POST /api/settings/reset/{key...}.
type ResetSettingEndpoint struct{}

func (e *ResetSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/settings/reset/{key...}", e.handler
}

func (e *ResetSettingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Reset a setting to default
//	@Tags			settings
//	@Produce		json
//	@Param			key	path		string	true	"Setting key (URL-encoded)"
//	@Success		200	{object}	SettingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/settings/reset/{key} [post]
func (e *ResetSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, ok := settingKey(w, r)
	if !ok {
		return
	}
	store, ok := settingsStore(w, r)
	if !ok {
		return
	}

	if err := config.ResetToDefault(r.Context(), store, key); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrNoDefault) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeSetting(w, r, store, key, reloadProviders(r, key))
}

func (e *ResetSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <key>",
		Short: "Reset a setting to its default value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := NewClient(getServerURL()).ResetSetting(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// reloadProviders rebuilds the registry after a provider setting changes
// and reports whether it did.
func reloadProviders(r *http.Request, key string) bool {
	if !config.IsProviderKey(key) {
		return false
	}
	ctx := r.Context()
	registry := svcctx.RegistryFrom(ctx)
	store := svcctx.ConfigStoreFrom(ctx)
	if registry == nil || store == nil {
		return false
	}
	cfg, err := config.StoreToProviderRegistryConfig(ctx, store)
	if err != nil {
		if logger := svcctx.LoggerFrom(ctx); logger != nil {
			logger.Error("failed to reload providers from settings", "key", key, "error", err)
		}
		return false
	}
	registry.Reload(cfg)
	return true
}
