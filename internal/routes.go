package internal

import (
	"net/http"
	"presetd/internal/controllers"
	"presetd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/presets", http.HandlerFunc(apiController.ListPresets))
	routers.Post("/presets", http.HandlerFunc(apiController.AddPreset))

	routers.Get("/preset", http.HandlerFunc(apiController.GetPreset))
	routers.Put("/preset", http.HandlerFunc(apiController.UpdatePreset))
	routers.Delete("/preset", http.HandlerFunc(apiController.DeletePreset))
	routers.Post("/preset/duplicate", http.HandlerFunc(apiController.DuplicatePreset))
	routers.Put("/preset/sharing", http.HandlerFunc(apiController.SetSharing))
	routers.Post("/preset/versions", http.HandlerFunc(apiController.CreateVersion))
	routers.Post("/preset/rollback", http.HandlerFunc(apiController.Rollback))
	routers.Post("/preset/apply", http.HandlerFunc(apiController.ApplyToImage))

	routers.Get("/active", http.HandlerFunc(apiController.GetActive))
	routers.Put("/active", http.HandlerFunc(apiController.SetActive))
	routers.Delete("/active", http.HandlerFunc(apiController.ClearActive))

	routers.Get("/project/default", http.HandlerFunc(apiController.GetProjectDefault))
	routers.Put("/project/default", http.HandlerFunc(apiController.SetProjectDefault))
	routers.Delete("/project/default", http.HandlerFunc(apiController.ClearProjectDefault))

	routers.Post("/match", http.HandlerFunc(apiController.Match))
	routers.Get("/image/preset", http.HandlerFunc(apiController.GetImagePreset))
	return routers
}
