package main

//
// Session: wiring together the API manager
//

import (
	"errors"
	"net/http"

	"github.com/altroute/altroute/internal/altroute"
	"github.com/altroute/altroute/internal/apimanager"
	"github.com/altroute/altroute/internal/dohprovider"
	"github.com/altroute/altroute/internal/httpbackend"
	"github.com/altroute/altroute/internal/kvstore"
	"github.com/altroute/altroute/internal/model"
	"github.com/altroute/altroute/internal/modesignal"
	"github.com/altroute/altroute/internal/userroutes"
	"github.com/altroute/altroute/internal/version"
	"github.com/google/uuid"
)

// sessionKey is the key under which we store the session ID.
const sessionKey = "session"

// session contains the objects used by commands.
type session struct {
	coordinator *altroute.Coordinator
	id          string
	logger      model.Logger
	manager     *apimanager.Manager
	settings    *modesignal.Flag
	tunnel      *modesignal.Flag
}

// newSession creates a new [*session] using the given environment.
func newSession(envs *environment, client model.HTTPClient, logger model.Logger) (*session, error) {
	store, err := kvstore.NewFS(envs.StateDir)
	if err != nil {
		return nil, err
	}
	id, err := loadOrCreateSessionID(store, logger)
	if err != nil {
		return nil, err
	}
	scoped := kvstore.NewScoped(store, id)

	// user routes come first so that they pin the routes of the domains they contain
	providers := []model.DoHProvider{&userroutes.Provider{KVStore: store}}
	for _, URL := range envs.DoHProviders {
		provider := dohprovider.New(client, logger, URL)
		provider.UserAgent = version.UserAgent()
		providers = append(providers, provider)
	}

	template := &httpbackend.Config{
		BaseRoute: envs.APIURL,
		Client:    client,
		Host:      envs.APIHost,
		Logger:    logger,
		UserAgent: version.UserAgent(),
	}
	coordinator := altroute.NewCoordinator(&altroute.Config{
		ActivePeriod:     envs.ActivePeriod,
		DiscoveryTimeout: envs.DoHTimeout,
		Domain:           envs.Domain,
		KVStore:          scoped,
		Logger:           logger,
		NewBackend:       httpbackend.NewBackendFunc(template),
		Providers:        providers,
	})

	// the primary never overrides the host header
	primary := *template
	primary.Host = ""

	settings := modesignal.NewFlag(envs.AlternativeRouting)
	tunnel := modesignal.NewFlag(envs.TunnelActive)
	manager := apimanager.New(&apimanager.Config{
		Alternatives: coordinator,
		Backoff:      envs.backoffPolicy(),
		DoHTimeout:   envs.DoHTimeout,
		Logger:       logger,
		Primary:      httpbackend.New(&primary),
		Settings:     modesignal.AlternativeRouting{Flag: settings},
		Tunnel:       modesignal.Tunnel{Flag: tunnel},
	})
	settings.Subscribe(manager.OnAlternativeRoutingChanged)

	sess := &session{
		coordinator: coordinator,
		id:          id,
		logger:      logger,
		manager:     manager,
		settings:    settings,
		tunnel:      tunnel,
	}
	return sess, nil
}

// loadOrCreateSessionID returns the persisted session ID, creating
// and persisting a new random one when needed.
func loadOrCreateSessionID(store model.KeyValueStore, logger model.Logger) (string, error) {
	data, err := store.Get(sessionKey)
	if err == nil {
		if id, err := uuid.ParseBytes(data); err == nil {
			return id.String(), nil
		}
		logger.Warn("altroutectl: ignoring invalid session ID")
	} else if !errors.Is(err, kvstore.ErrNoSuchKey) {
		return "", err
	}
	id := uuid.New().String()
	if err := store.Set(sessionKey, []byte(id)); err != nil {
		return "", err
	}
	logger.Infof("altroutectl: new session: %s", id)
	return id, nil
}

// defaultHTTPClient returns the HTTP client used by the commands.
func defaultHTTPClient() model.HTTPClient {
	return &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
}
