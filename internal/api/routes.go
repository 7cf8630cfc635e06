package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	s.router.POST("/frames/:clientId", s.frameHandler.Ingest)
	s.router.GET("/stream/:clientId", s.streamHandler.Stream)
	s.router.GET("/result/:clientId", s.resultHandler.Result)
	s.router.GET("/ws/:clientId", s.wsHandler.Connect)

	s.router.POST("/process_image", s.processHandler.ProcessImage)
	s.router.GET("/clients", s.resultHandler.Clients)
}
