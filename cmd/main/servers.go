package main

import (
	"fmt"
	"net"

	pb "plug-explorer/src/grpc_control"
	"plug-explorer/src/home"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
	"plug-explorer/src/server"

	"google.golang.org/grpc"
)

// -----------------------------------------------------------------------------

// startServers starts the HTTP server and the gRPC control server
func startServers(
	srv *server.FastAPIServer,
	page *home.Page,
	config *models.MConfig,
	appLogger *logger.Logger,
) *grpc.Server {

	// 1. FastAPIServer
	if _, err := srv.Start(); err != nil {
		appLogger.Critical("Server failed: %v", err)
	}

	// 2. gRPC Control Server
	port := config.GrpcPort
	if port == 0 {
		port = 50051 // Default fallback
	}
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", config.GrpcHost, port))
	if err != nil {
		appLogger.Critical("failed to listen for gRPC: %v", err)
	}

	grpcServer := grpc.NewServer()
	controlService := pb.NewControlService(page, srv.Language, appLogger.Named("ControlService"))
	pb.RegisterExplorerControlServer(grpcServer, controlService)

	go func() {
		appLogger.Info("Starting gRPC Control Server on %s", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Error("failed to serve gRPC: %v", err)
		}
	}()
	return grpcServer
}
