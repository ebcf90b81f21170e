package llm

// KnownModels содержит модели, с которыми сервис проверялся.
// Остальные id не запрещены: OpenAI-совместимые прокси используют свои имена.
var KnownModels = []ModelInfo{
	{
		ID:          "gpt-4o-mini",
		Name:        "GPT-4o mini",
		Description: "Быстрая и дешёвая модель, используется по умолчанию",
	},
	{
		ID:          "gpt-4o",
		Name:        "GPT-4o",
		Description: "Флагманская модель OpenAI",
	},
	{
		ID:          "gpt-4.1-mini",
		Name:        "GPT-4.1 mini",
		Description: "Компактная модель семейства 4.1",
	},
	{
		ID:          "openai/gpt-4o-mini",
		Name:        "GPT-4o mini (OpenRouter)",
		Description: "Та же модель через OpenRouter",
	},
}

// ModelInfo описывает информацию о модели.
type ModelInfo struct {
	ID          string // Идентификатор модели для API
	Name        string // Короткое название для отображения
	Description string
}

// GetModelByID возвращает информацию о модели по её ID.
// Если модель не найдена, возвращает nil.
func GetModelByID(modelID string) *ModelInfo {
	for _, m := range KnownModels {
		if m.ID == modelID {
			return &m
		}
	}
	return nil
}

func IsKnownModel(modelID string) bool {
	return GetModelByID(modelID) != nil
}

// ModelName возвращает короткое название модели по её ID или сам ID.
func ModelName(modelID string) string {
	if info := GetModelByID(modelID); info != nil {
		return info.Name
	}
	return modelID
}
