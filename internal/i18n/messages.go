package i18n

import (
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/crops/pkg/types"
)

// Message keys. The English text is the key.
const (
	MsgStage         = "Current %s stage: %s (since %s, %d days ago)."
	MsgNeverWatered  = "%s was never watered."
	MsgWatered       = "%s was watered %s, %d days ago."
	MsgWateredToday  = "%s was watered today."
	MsgNeverFed      = "%s was never fed."
	MsgFed           = "%s was fed %s, %d days ago."
	MsgFedToday      = "%s was fed today."
	MsgAge           = "%s has been planted for %d days."
	MsgNoEvents      = "No events added yet."
	MsgCropInfo      = "== Crop Info =="
	MsgCropEvents    = "== Crop Events =="
	MsgWatering      = "[%s] Watering %s."
	MsgWateringWith  = "[%s] Watering %s with %s."
	MsgFeeding       = "[%s] Feeding %s."
	MsgStageSet      = "[%s] Stage of %s set to %s."
	MsgNewSaved      = "New crop saved to: %s"
	MsgFileExists    = "File already exists. Aborting!"
	MsgUnknownSuffix = "%s (unknown)"

	PromptName     = "Plant name"
	PromptPlants   = "Number of plants"
	PromptCultivar = "Plant cultivar"
	PromptStage    = "Initial stage"
	PromptSource   = "Source"
	PromptNotes    = "Notes"
	PromptOptional = "optional"
	PromptSeeds    = "seeds"
	PromptHelp     = "enter: next · ↑/↓: choose · esc: cancel"
)

type translation struct {
	tag      language.Tag
	messages map[string]string
}

var translations = []translation{
	{tag: language.English, messages: identity(
		MsgStage, MsgNeverWatered, MsgWatered, MsgWateredToday, MsgNeverFed,
		MsgFed, MsgFedToday, MsgAge, MsgNoEvents, MsgCropInfo, MsgCropEvents,
		MsgWatering, MsgWateringWith, MsgFeeding, MsgStageSet, MsgNewSaved,
		MsgFileExists, MsgUnknownSuffix,
		PromptName, PromptPlants, PromptCultivar, PromptStage, PromptSource,
		PromptNotes, PromptOptional, PromptSeeds, PromptHelp,
		types.StagePlanted, types.StageGermination, types.StageSeedling,
		types.StageCutting, types.StageVegetation, types.StageBudding,
		types.StageFlowering, types.StageRipening, types.StageDrying,
		types.StageCuring, types.StageHarvested,
	)},
	{tag: language.French, messages: map[string]string{
		MsgStage:         "Stade actuel de %s : %s (depuis le %s, il y a %d jours).",
		MsgNeverWatered:  "%s n'a jamais été arrosé.",
		MsgWatered:       "%s a été arrosé le %s, il y a %d jours.",
		MsgWateredToday:  "%s a été arrosé aujourd'hui.",
		MsgNeverFed:      "%s n'a jamais reçu d'engrais.",
		MsgFed:           "%s a reçu de l'engrais le %s, il y a %d jours.",
		MsgFedToday:      "%s a reçu de l'engrais aujourd'hui.",
		MsgAge:           "%s est planté depuis %d jours.",
		MsgNoEvents:      "Aucun événement pour l'instant.",
		MsgCropInfo:      "== Fiche de culture ==",
		MsgCropEvents:    "== Journal ==",
		MsgWatering:      "[%s] Arrosage de %s.",
		MsgWateringWith:  "[%s] Arrosage de %s avec %s.",
		MsgFeeding:       "[%s] Fertilisation de %s.",
		MsgStageSet:      "[%s] Stade de %s : %s.",
		MsgNewSaved:      "Nouvelle culture enregistrée dans : %s",
		MsgFileExists:    "Le fichier existe déjà. Abandon !",
		MsgUnknownSuffix: "%s (inconnu)",

		PromptName:     "Nom de la plante",
		PromptPlants:   "Nombre de plants",
		PromptCultivar: "Cultivar",
		PromptStage:    "Stade initial",
		PromptSource:   "Origine",
		PromptNotes:    "Notes",
		PromptOptional: "facultatif",
		PromptSeeds:    "graines",
		PromptHelp:     "entrée : suivant · ↑/↓ : choisir · échap : annuler",

		types.StagePlanted:     "planté",
		types.StageGermination: "germination",
		types.StageSeedling:    "semis",
		types.StageCutting:     "bouture",
		types.StageVegetation:  "croissance",
		types.StageBudding:     "bourgeonnement",
		types.StageFlowering:   "floraison",
		types.StageRipening:    "maturation",
		types.StageDrying:      "séchage",
		types.StageCuring:      "affinage",
		types.StageHarvested:   "récolté",
	}},
	{tag: language.Portuguese, messages: map[string]string{
		MsgStage:         "Estágio atual de %s: %s (desde %s, há %d dias).",
		MsgNeverWatered:  "%s nunca foi regado.",
		MsgWatered:       "%s foi regado em %s, há %d dias.",
		MsgWateredToday:  "%s foi regado hoje.",
		MsgNeverFed:      "%s nunca foi adubado.",
		MsgFed:           "%s foi adubado em %s, há %d dias.",
		MsgFedToday:      "%s foi adubado hoje.",
		MsgAge:           "%s foi plantado há %d dias.",
		MsgNoEvents:      "Nenhum evento registrado ainda.",
		MsgCropInfo:      "== Informações do cultivo ==",
		MsgCropEvents:    "== Eventos do cultivo ==",
		MsgWatering:      "[%s] Regando %s.",
		MsgWateringWith:  "[%s] Regando %s com %s.",
		MsgFeeding:       "[%s] Adubando %s.",
		MsgStageSet:      "[%s] Estágio de %s definido como %s.",
		MsgNewSaved:      "Novo cultivo salvo em: %s",
		MsgFileExists:    "O arquivo já existe. Abortando!",
		MsgUnknownSuffix: "%s (desconhecido)",

		PromptName:     "Nome da planta",
		PromptPlants:   "Número de plantas",
		PromptCultivar: "Cultivar",
		PromptStage:    "Estágio inicial",
		PromptSource:   "Origem",
		PromptNotes:    "Notas",
		PromptOptional: "opcional",
		PromptSeeds:    "sementes",
		PromptHelp:     "enter: próximo · ↑/↓: escolher · esc: cancelar",

		types.StagePlanted:     "plantado",
		types.StageGermination: "germinação",
		types.StageSeedling:    "muda",
		types.StageCutting:     "estaca",
		types.StageVegetation:  "vegetativo",
		types.StageBudding:     "botão",
		types.StageFlowering:   "floração",
		types.StageRipening:    "amadurecimento",
		types.StageDrying:      "secagem",
		types.StageCuring:      "cura",
		types.StageHarvested:   "colhido",
	}},
}

func identity(keys ...string) map[string]string {
	m := make(map[string]string, len(keys))
	for _, k := range keys {
		m[k] = k
	}
	return m
}
