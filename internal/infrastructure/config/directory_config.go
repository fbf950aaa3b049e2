// This file handles loading the Viterbit tenant tables from a YAML file:
// custom-field question IDs and the department and location lookups.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DirectoryFieldIDs maps the gateway's named candidate custom fields to
// their Viterbit question IDs. Every ID can be overridden per tenant.
type DirectoryFieldIDs struct {
	// DiscordID stores the candidate's Discord username.
	DiscordID string `yaml:"discord_id"`
	// Subscriber marks the candidate as a subscriber.
	Subscriber string `yaml:"subscriber"`
	// StageName mirrors the candidature stage onto the candidate.
	StageName string `yaml:"stage_name"`
	// StageDate records when the mirrored stage was written.
	StageDate string `yaml:"stage_date"`
	// Warranty100Days marks candidates inside the 100-day warranty window.
	Warranty100Days string `yaml:"warranty_100_days"`
	// ActivityStatus holds the Activo/Inactivo flag.
	ActivityStatus string `yaml:"activity_status"`
	// Zone holds the candidate's zona.
	Zone string `yaml:"zone"`
	// Province holds the candidate's provincia.
	Province string `yaml:"province"`
	// Coach names the assigned coach.
	Coach string `yaml:"coach"`
	// DrivingLicense holds the carnet de conducir answer.
	DrivingLicense string `yaml:"driving_license"`
	// NationalMobility holds the movilidad nacional answer.
	NationalMobility string `yaml:"national_mobility"`
	// Experience holds the experiencia relacionada answer.
	Experience string `yaml:"experience"`
}

// DirectoryConfig carries the Viterbit tenant tables consumed by the
// directory client and the tool handlers.
type DirectoryConfig struct {
	// Fields are the custom-field question IDs.
	Fields DirectoryFieldIDs `yaml:"fields"`
	// DisqualifiedByID is the actor recorded on disqualifications.
	DisqualifiedByID string `yaml:"disqualified_by_id"`
	// Departments maps department names to Viterbit department IDs.
	Departments map[string]string `yaml:"departments"`
	// Locations maps location names to Viterbit location IDs.
	Locations map[string]string `yaml:"locations"`
}

// DefaultDirectoryConfig returns the built-in tenant tables.
func DefaultDirectoryConfig() *DirectoryConfig {
	return &DirectoryConfig{
		Fields: DirectoryFieldIDs{
			DiscordID:        "67f69c61c26ebcaa2f024ea3",
			Subscriber:       "67fe75c8f8e7996e110cb5a0",
			StageName:        "682c9947fdbad58c810ddb8a",
			StageDate:        "6821ff159432bfca8407fbe4",
			Warranty100Days:  "68bea397f801385f0f0e0088",
			ActivityStatus:   "68a455d5585b0d17c20bdcb1",
			Zone:             "67c83def159fcdd58906e4c5",
			Province:         "67c84b1c21bda2b3c60fabea",
			Coach:            "68c14707fdded0284e03159c",
			DrivingLicense:   "6748889b1207a9f3040c4a8a",
			NationalMobility: "67c8200c62e3ae6c1006691b",
			Experience:       "67c8412097b7cbb331024e09",
		},
		DisqualifiedByID: "67496bc419367fe3810c6412",
		Departments: map[string]string{
			"Aerotermia":            "6823708a92b2ec408603a9aa",
			"Electricidad":          "674882703e806a32920f1c07",
			"Fontanería":            "682370bd680b48a79a0d5e73",
			"Instalaciones":         "682370c9b53725e32a021be9",
			"Mantenimiento general": "682370d5095d26419f0749f9",
			"Mecánica":              "682370e104990151bc037c18",
			"Climatización":         "6823645b14b4f3d6cf0437e2",
			"Gas":                   "682370c39aa0d1ef33070e81",
			"Albañilería":           "682364697248dfd911005c94",
			"Soldadura":             "682370edd758cbaa060c2257",
			"Telecomunicaciones":    "682370f383b0e1c2af0a8a2f",
			"Maquinista":            "682370dae0c16a69fd0457b4",
			"Pintura":               "682370e72d85ff622c023353",
			"Energías Renovables":   "67488288a1ae68e8920419cd",
			"Cristalería":           "682da6d711ae26612408119c",
			"Aluminería":            "682da6ced2805005700b889d",
			"Producción":            "682da6c54cc9378d560ba721",
			"Oficios":               "67f78168e15674453b0c34b1",
		},
		Locations: map[string]string{
			"Madrid":            "674f2f46c51a95550a07e205",
			"Valencia":          "6750104751972bd5c4034f61",
			"Ourense":           "67500f5d09cac50dbe062127",
			"Tarragona":         "675011443cc983b9e90b0c85",
			"Lleida":            "682444c64d6590aac40cf58d",
			"Málaga":            "675010dfbea835b2440414ba",
			"Bilbao":            "6750120b319ca9668909f319",
			"Cadiz":             "6750107dc737fb3bca0ca3c2",
			"Castellón":         "67501110c30a8e4c1c01becc",
			"Salamanca":         "68244593c5f75e96640ed0e6",
			"Barcelona":         "6750123a1496b55c61068d3d",
			"Segovia":           "675010a8c30a8e4c1c01bec0",
			"Jaén":              "6824446f8925c0253803b671",
			"Toledo":            "6824463e74e85ce43b060d33",
			"Murcia":            "67502cf3c9f7fbd36d083027",
			"Palma de Mallorca": "6824445dafc1fcfb300110f4",
			"Navarra":           "68244530f1097783be0424bc",
			"León":              "682444b3c2490915090b06e8",
			"Sevilla":           "682445dcb0b47d4993085917",
			"Zaragoza":          "675011b1521ee3d3cb05b5a2",
			"Alicante":          "6824425a8a9153c125067c92",
			"Ciudad Real":       "6824439b17474c2ca50b1311",
		},
	}
}

// LoadDirectoryConfig loads the tenant tables from a YAML file. Values
// present in the file override the built-in defaults; everything else is
// kept, so a file listing two departments still knows all the field IDs.
// Returns an error if the file cannot be read or parsed.
func LoadDirectoryConfig(path string) (*DirectoryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup file: %w", err)
	}

	config := DefaultDirectoryConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse lookup file: %w", err)
	}

	return config, nil
}

// LoadDirectoryConfigWithDefaults loads the tenant tables from a file,
// falling back to the built-in tables if the file doesn't exist.
func LoadDirectoryConfigWithDefaults(path string) (*DirectoryConfig, error) {
	config, err := LoadDirectoryConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultDirectoryConfig(), nil
		}
		return nil, err
	}
	return config, nil
}
