package http

// registerV1Routes sets up the field data API under /api/v1.
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())
	if s.cfg.BearerToken != "" {
		v1.Use(bearerAuthMiddleware(s.cfg.BearerToken))
	}
	v1.Use(timeoutMiddleware(s.cfg.RequestTimeout))

	// Sites and installations
	v1.POST("/sites", s.handleCreateSite)
	v1.GET("/sites/:id", s.handleGetSite)
	v1.GET("/sites/code/:code", s.handleGetSiteByCode)
	v1.GET("/sites/:id/installations", s.handleInstallationsAtSite)

	v1.POST("/installations", s.handleCreateInstallation)
	v1.GET("/installations/:id", s.handleGetInstallation)
	v1.GET("/installations/code/:code", s.handleGetInstallationByCode)
	v1.PATCH("/installations/:id", s.handleUpdateInstallation)
	v1.GET("/installations/survey/:type", s.handleSurveyInfo)
	v1.POST("/installation_pairs", s.handleCreateInstallationPair)
	v1.GET("/installations/:id/pair", s.handleGetInstallationPair)

	// Visits and histories
	v1.POST("/visits", s.handleCreateVisit)
	v1.GET("/visits/dump", s.handleDump)
	v1.GET("/visits/:id", s.handleGetVisit)
	v1.GET("/installations/:id/visits", s.handleListVisits)
	v1.GET("/installations/:id/visits/at", s.handleVisitAt)
	v1.GET("/installations/:id/visits/closest", s.handleClosestVisit)
	v1.GET("/installations/:id/logger_history", s.handleLoggerHistory)
	v1.GET("/installations/:id/al_probe_history", s.handleALProbeHistory)
	v1.GET("/installations/:id/thaw_tube_history", s.handleThawTubeHistory)

	v1.POST("/al_probe_measurements", s.handleCreateALProbe)
	v1.GET("/al_probe_measurements", s.handleGetALProbe)

	// Loggers, deployments and downloads
	v1.POST("/loggers", s.handleCreateLogger)
	v1.GET("/loggers/lookup", s.handleLookupLogger)
	v1.GET("/loggers/serial/:sn", s.handleGetLoggerBySerial)
	v1.GET("/loggers/:id", s.handleGetLogger)
	v1.PATCH("/loggers/:id/type", s.handleUpdateLoggerType)
	v1.PATCH("/loggers/:id/battery_year", s.handleUpdateLoggerBatteryYear)

	v1.POST("/deployments", s.handleCreateDeployment)
	v1.POST("/deployments/readable", s.handleReadableDeployments)
	v1.GET("/deployments/most_recent", s.handleMostRecentDeployment)
	v1.GET("/deployments/previous_unclosed", s.handlePreviousUnclosedDeployments)
	v1.GET("/deployments/by_visit", s.handleDeploymentsByVisit)
	v1.GET("/deployments/:id", s.handleGetDeployment)
	v1.POST("/deployments/:id/close", s.handleCloseDeployment)
	v1.PATCH("/deployments/:id/logger", s.handleUpdateDeploymentLogger)
	v1.DELETE("/deployments/:id", s.handleDeleteDeployment)
	v1.GET("/deployments/:id/download", s.handleGetDownloadByDeployment)
	v1.GET("/installations/:id/deployments", s.handleListDeployments)
	v1.GET("/installations/:id/current_logger", s.handleCurrentLogger)

	v1.POST("/logger_downloads", s.handleCreateDownload)
	v1.GET("/logger_downloads/:id", s.handleGetDownload)
	v1.PATCH("/logger_downloads/:id", s.handleUpdateDownload)

	// Cables
	v1.POST("/cables", s.handleCreateCable)
	v1.PATCH("/cables/:id", s.handleUpdateCable)
	v1.GET("/installations/:id/cable", s.handleGetCableByInstallation)
	v1.POST("/cable_sensors", s.handleCreateCableSensor)
	v1.GET("/cable_sensors/:id", s.handleGetCableSensor)
	v1.PATCH("/cable_sensors/:id", s.handleUpdateCableSensor)
	v1.GET("/cables/:id/sensors", s.handleListCableSensors)
	v1.GET("/cables/:id/sensors/:number", s.handleSensorsAtPosition)
	v1.GET("/cables/:id/sensors/:number/as_of", s.handleSensorAsOf)
	v1.GET("/installations/:id/cable_sensors", s.handleCableSensorsAtInstallation)

	v1.POST("/cable_manual_reads", s.handleCreateManualRead)
	v1.GET("/cable_manual_reads", s.handleGetManualRead)
	v1.GET("/installations/:id/cable_manual_reads", s.handleListManualReads)

	v1.POST("/cable_logger_data", s.handleCreateCableLoggerData)
	v1.POST("/cable_logger_data/bulk", s.handleBulkCableLoggerData)
	v1.GET("/installations/:id/cable_logger_data", s.handleListCableLoggerData)
	v1.GET("/installations/:id/cable_logger_data/mean", s.handleCableMeans)

	v1.POST("/stick_ups", s.handleCreateStickUp)
	v1.GET("/visits/:id/stick_up", s.handleGetStickUp)
	v1.POST("/cable_sensor_mappings", s.handleCreateSensorMapping)

	// Thaw tubes
	v1.POST("/bead_colour_years", s.handleCreateBeadColourYear)
	v1.GET("/bead_colour_years/year/:year", s.handleGetBeadColourByYear)
	v1.GET("/bead_colour_years/colour/:colour", s.handleGetBeadColourByColour)

	v1.POST("/thaw_tubes", s.handleCreateThawTube)
	v1.GET("/installations/:id/thaw_tube", s.handleGetThawTubeByInstallation)
	v1.POST("/thaw_tube_readings", s.handleCreateThawTubeReading)
	v1.GET("/visits/:id/thaw_tube_reading", s.handleGetThawTubeReadingByVisit)
	v1.GET("/thaw_tubes/:id/readings", s.handleListThawTubeReadings)
	v1.POST("/thaw_tube_bead_measurements", s.handleCreateBeadMeasurement)
	v1.GET("/thaw_tube_readings/:id/beads", s.handleListBeadMeasurements)
	v1.GET("/thaw_tube_readings/:id/beads/:year", s.handleGetBeadMeasurement)
	v1.GET("/thaw_tubes/:id/bead_history", s.handleBeadHistory)
	v1.POST("/thaw_tube_references", s.handleCreateThawTubeReference)
	v1.GET("/thaw_tubes/:id/references", s.handleThawTubeReferences)

	// Air/ground and four-channel loggers
	v1.POST("/air_ground_data", s.handleCreateAirGroundData)
	v1.POST("/air_ground_data/bulk", s.handleBulkAirGroundData)
	v1.GET("/installations/:id/air_ground_data", s.handleListAirGroundData)
	v1.GET("/installations/:id/air_ground_data/mean", s.handleAirGroundMeans)

	v1.POST("/four_channel_sensors", s.handleCreateFourChannelSensor)
	v1.GET("/installations/:id/four_channel_sensors", s.handleListFourChannelSensors)
	v1.POST("/four_channel_data", s.handleCreateFourChannelData)
	v1.POST("/four_channel_data/bulk", s.handleBulkFourChannelData)
	v1.GET("/installations/:id/four_channel_data/mean", s.handleFourChannelMeans)

	// Weather stations
	v1.POST("/weather_stations", s.handleCreateWeatherStation)
	v1.GET("/installations/:id/weather_station", s.handleGetWeatherStationByInstallation)
	v1.PATCH("/weather_stations/:id/status", s.handleUpdateWeatherStationStatus)
	v1.POST("/weather_station_downloads", s.handleCreateStationDownload)
	v1.GET("/visits/:id/weather_station_download", s.handleGetStationDownloadByVisit)
	v1.POST("/weather_station_hourly_data", s.handleCreateHourlyData)
	v1.POST("/weather_station_daily_data", s.handleCreateDailyData)
	v1.GET("/weather_stations/:id/hourly_data", s.handleGetHourlyData)
	v1.GET("/weather_stations/:id/daily_data", s.handleGetDailyData)

	v1.GET("/catalog", s.handleCatalog)
}
