package crc20

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/internal/config"
	"github.com/gaze-network/crc20-resolver/modules/crc20/datagateway"
	"github.com/gaze-network/crc20-resolver/modules/crc20/repository/electrumx"
	"github.com/gaze-network/crc20-resolver/modules/crc20/usecase"
	"github.com/gaze-network/crc20-resolver/pkg/electrum"
	"github.com/gaze-network/crc20-resolver/pkg/httpclient"
	"github.com/gaze-network/crc20-resolver/pkg/logger"
	"github.com/gaze-network/crc20-resolver/pkg/logger/slogx"
	"github.com/samber/do/v2"
)

const Version = "v0.1.0"

// New builds the resolver on top of the configured indexing service.
func New(injector do.Injector) (*usecase.Usecase, error) {
	ctx := logger.WithContext(do.MustInvoke[context.Context](injector), slogx.Stringer("module", common.ModuleCRC20))
	conf := do.MustInvoke[config.Config](injector)

	var indexerDg datagateway.IndexerDataGateway
	switch strings.ToLower(conf.Indexer.Backend) {
	case "electrum", "electrumx", "fulcrum":
		client, err := do.Invoke[*electrum.Client](injector)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		indexerDg = electrumx.NewRepository(client)
		logger.InfoContext(ctx, "Using Electrum indexing service", slogx.String("url", conf.Indexer.Electrum.URL))
	case "rest", "bch-api":
		client, err := httpclient.New(conf.Indexer.Rest.URL, conf.Indexer.Rest.Config)
		if err != nil {
			return nil, errors.Wrap(err, "invalid REST indexing service configuration")
		}
		indexerDg = electrumx.NewRestRepository(client)
		logger.InfoContext(ctx, "Using REST indexing service", slogx.String("url", conf.Indexer.Rest.URL))
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q indexing service is not supported", conf.Indexer.Backend)
	}

	return usecase.New(indexerDg, conf.Network, conf.Resolver), nil
}

// NewElectrumClient creates the Electrum client. It connects on first use.
func NewElectrumClient(injector do.Injector) (*electrum.Client, error) {
	conf := do.MustInvoke[config.Config](injector)
	client, err := electrum.NewClient(conf.Indexer.Electrum)
	if err != nil {
		if errors.Is(err, errs.InvalidArgument) {
			return nil, errors.Wrap(err, "invalid Electrum configuration")
		}
		return nil, errors.Wrap(err, "can't create Electrum client")
	}
	return client, nil
}

// Package registers the resolver and its collaborators.
var Package = do.Package(
	do.Lazy(NewElectrumClient),
	do.Lazy(New),
)
