package main

import (
	"github.com/krishkumar84/assignmentDude/internal/config"
	logger "github.com/krishkumar84/assignmentDude/internal/logging"
	"github.com/krishkumar84/assignmentDude/internal/models"
	"github.com/krishkumar84/assignmentDude/internal/router"
	"github.com/krishkumar84/assignmentDude/internal/services"
	"github.com/krishkumar84/assignmentDude/internal/session"

	"go.uber.org/zap"
)

func main() {
	// Bootstrap logger for config loading; the real logger needs the
	// logging config first.
	boot, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}

	// Initialize configuration
	if err := config.Init(".", boot); err != nil {
		boot.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Logger
	log, err := logger.Init(config.Conf.Logging)
	if err != nil {
		boot.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Load the violation policy at startup
	policy := models.DefaultPolicy()
	if path := config.Conf.Proctoring.PolicyPath; path != "" {
		policy, err = models.LoadPolicy(path)
		if err != nil {
			log.Fatal("Failed to load proctoring policy", zap.Error(err))
		}
	}
	log.Info("Proctoring policy loaded",
		zap.Strings("unauthorized_objects", policy.UnauthorizedObjects),
		zap.Float64("head_pose_threshold", policy.HeadPoseThreshold),
	)

	// The registry owns all session trackers for the process lifetime.
	registry := session.NewRegistry(policy, log)

	// Periodic registry summary, sessions are never evicted so growth is
	// worth watching.
	services.NewMonitor(log, registry).Start()

	// Setup router, passing the logger and registry to it
	r := router.Setup(log, registry)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
