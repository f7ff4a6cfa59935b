package main

import (
	"context"

	"github.com/kestrelmc/dfsmc"
	"github.com/kestrelmc/dfsmc/internal/reporting"
)

func buildLogger(verbose bool) (*reporting.ZapLogger, error) {
	if verbose {
		return reporting.NewDevelopmentLogger()
	}
	return reporting.NewProductionLogger()
}

func newExplorer(ctx context.Context, app dfsmc.RemoteApp, opts ...dfsmc.Option) (*dfsmc.Explorer, error) {
	return dfsmc.New(ctx, app, opts...)
}
