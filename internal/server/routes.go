package server

func (s *Server) setupRoutes() {
	r := s.router

	r.GET("/healthz", s.handleHealth)

	r.GET("/preview.jpg", s.handlePreviewFrame)
	r.GET("/preview.mjpg", s.handlePreviewStream)
	r.PUT("/preview/size", s.handlePreviewSize)

	r.POST("/capture", s.handleCapture)
	r.POST("/frame", s.handleFrame)

	r.GET("/content", s.handleGetContent)
	r.PUT("/content", s.handlePutContent)
}
