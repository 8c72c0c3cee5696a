package constants

// Classification is the collapsed hazard-order class used in the arrete table.
type Classification string

const (
	MiseEnSecuriteModificatif Classification = "Arrêté de mise en sécurité modificatif"
	MiseEnSecurite            Classification = "Arrêté de mise en sécurité"
	Mainlevee                 Classification = "Arrêté de mainlevée"
)

// Urgency values for the proc_urgence column.
const (
	UrgenceOui       = "oui"
	UrgenceNon       = "non"
	UrgenceIncertain = "oui ou non"
	UrgenceSansObjet = "/"
)
