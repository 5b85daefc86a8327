package internal

import (
	"net/http"

	"guildcloner/internal/controllers"
	"guildcloner/internal/providers"
)

func InitRoutes(progressController *controllers.ProgressController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("progress", "/progress", http.HandlerFunc(progressController.GetProgress))
	routers.Get("report", "/report", http.HandlerFunc(progressController.GetReport))
	return routers
}
