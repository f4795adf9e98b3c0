package internal

import (
	"net/http"

	"cvdd/internal/controllers"
	"cvdd/internal/providers"
)

func InitRoutes(storeController *controllers.StoreController, testController *controllers.TestController, filterController *controllers.FilterController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/profile", http.HandlerFunc(storeController.SaveProfile))
	routers.Get("/profile", http.HandlerFunc(storeController.GetProfile))

	routers.Post("/predict", http.HandlerFunc(storeController.PredictRisk))
	routers.Get("/predictions", http.HandlerFunc(storeController.GetPredictions))
	routers.Get("/predictions/latest", http.HandlerFunc(storeController.GetLatestPrediction))

	routers.Post("/test/start", http.HandlerFunc(testController.StartTest))
	routers.Post("/test/response", http.HandlerFunc(testController.SubmitResponse))
	routers.Post("/test/complete", http.HandlerFunc(testController.CompleteTest))
	routers.Get("/results", http.HandlerFunc(storeController.GetTestResults))
	routers.Get("/results/latest", http.HandlerFunc(storeController.GetLatestTestResult))

	routers.Post("/filter/effects", http.HandlerFunc(filterController.DeriveEffects))
	routers.Get("/filter/presets", http.HandlerFunc(filterController.GetPresets))

	routers.Post("/feedback", http.HandlerFunc(testController.SubmitFeedback))
	routers.Get("/feedback/analytics", http.HandlerFunc(testController.GetFeedbackAnalytics))

	routers.Get("/analytics/storage", http.HandlerFunc(storeController.GetStorageStats))
	routers.Get("/export", http.HandlerFunc(storeController.ExportData))
	routers.Post("/maintenance/cache-cleanup", http.HandlerFunc(storeController.CleanupCache))
	routers.Post("/maintenance/reset", http.HandlerFunc(storeController.ResetAllData))
	routers.Get("/sync/queue", http.HandlerFunc(storeController.GetOfflineQueue))
	routers.Post("/sync/clear", http.HandlerFunc(storeController.ClearOfflineQueue))

	return routers
}
