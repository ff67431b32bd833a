// Package main is the entry point for the gridpay device agent.
// The agent registers the local machine as a compute device, polls the
// controller for queued jobs and reports their results.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gridpay/internal/agent"
	"gridpay/internal/agent/runtime"
	"gridpay/internal/config"
	"gridpay/internal/logger"
)

func main() {
	cfg, err := config.LoadAgent()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AgentUserID == "" {
		log.Fatal("AGENT_USER_ID is required")
	}
	if cfg.AgentAdvertiseURL == "" {
		log.Fatal("AGENT_ADVERTISE_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Select runtime based on configuration
	var rt runtime.Runtime
	switch cfg.AgentRuntime {
	case "exec":
		rt = runtime.NewExecRuntime()
		log.Println("Using exec runtime")
	case "kubernetes":
		k8sRT, err := runtime.NewKubernetesRuntime(runtime.KubernetesConfig{
			Namespace:      cfg.AgentK8sNamespace,
			ServiceAccount: cfg.AgentK8sServiceAccount,
		})
		if err != nil {
			log.Fatalf("Failed to create Kubernetes runtime: %v", err)
		}
		rt = k8sRT
		log.Println("Using kubernetes runtime")
	case "docker":
		fallthrough
	default:
		dockerRT, err := runtime.NewDockerRuntime()
		if err != nil {
			log.Fatalf("Failed to create Docker runtime: %v", err)
		}
		rt = dockerRT
		log.Println("Using docker runtime")
	}

	a := agent.New(agent.Config{
		UserID:            cfg.AgentUserID,
		AdvertiseURL:      cfg.AgentAdvertiseURL,
		ControllerURL:     cfg.ControllerURL,
		PollInterval:      cfg.PollInterval,
		HeartbeatInterval: cfg.HeartbeatInterval,
	}, rt, logger.New())

	go a.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down agent...")
	cancel()
}
