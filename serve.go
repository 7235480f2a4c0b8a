// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"context"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/elliotnunn/resourceform/internal/logging"
	"github.com/elliotnunn/resourceform/internal/server"
)

func (a *app) serveCmd() *cli.Command {
	var (
		root      string
		addr      string
		openFiles int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Browse the resource files below a directory over HTTP",
		Flags: []cli.Flag{
			forkFlag(),
			&cli.StringFlag{
				Name:        "root",
				Usage:       "directory to serve",
				Value:       ".",
				Destination: &root,
			},
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.Int64Flag{
				Name:        "open-files",
				Usage:       "resource files kept open at once",
				Value:       64,
				Destination: &openFiles,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logging.FromContext(ctx)
			if !cmd.IsSet("root") && a.cfg.ServerRoot != "" {
				root = a.cfg.ServerRoot
			}
			if !cmd.IsSet("addr") && a.cfg.ServerAddress != "" {
				addr = a.cfg.ServerAddress
			}
			if !cmd.IsSet("open-files") && a.cfg.OpenFiles != nil {
				openFiles = int64(*a.cfg.OpenFiles)
			}
			fork, err := a.fork(cmd)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				Root:      root,
				OpenFiles: int(openFiles),
				Fork:      fork,
				Options:   a.options(),
				Logger:    log,
			})
			if err != nil {
				return err
			}
			defer srv.Close()

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			srv.Register(e)
			log.Info("startingServer", "address", addr, "root", root)
			sc := echo.StartConfig{Address: addr}
			return sc.Start(ctx, e)
		},
	}
}
