// Package ingest loads the optimization dataset from a YAML master file plus
// CSV freight matrices, validating shape and cross-references before any of
// it reaches the planning engines.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/shared"
)

type materialEntryDTO struct {
	VolumeTons  float64 `yaml:"volume_tons" validate:"gte=0"`
	PricePerTon float64 `yaml:"price_per_ton" validate:"gte=0"`
}

type collectionPointDTO struct {
	SiteID    string                      `yaml:"site_id" validate:"required"`
	Materials map[string]materialEntryDTO `yaml:"materials" validate:"required,min=1,dive"`
}

type portDTO struct {
	PortID          string  `yaml:"port_id" validate:"required"`
	OperationalCost float64 `yaml:"operational_cost" validate:"gte=0"`
	SeaFreight      float64 `yaml:"sea_freight" validate:"gte=0"`
}

type demandDTO struct {
	TargetTons           float64            `yaml:"target_tons" validate:"required,gt=0"`
	YieldFactors         map[string]float64 `yaml:"yield_factors" validate:"required"`
	MaxConsumptionShares map[string]float64 `yaml:"max_consumption_shares" validate:"required"`
}

type freightDTO struct {
	InboundMatrix  string  `yaml:"inbound_matrix" validate:"required"`
	OutboundMatrix string  `yaml:"outbound_matrix" validate:"required"`
	MaterialEFlat  float64 `yaml:"material_e_flat" validate:"gte=0"`
}

type overridesDTO struct {
	ForcedFacility string   `yaml:"forced_facility"`
	ForcedPorts    []string `yaml:"forced_ports"`
}

type datasetFileDTO struct {
	CollectionPoints []collectionPointDTO `yaml:"collection_points" validate:"required,min=1,dive"`
	Ports            []portDTO            `yaml:"ports" validate:"required,min=1,dive"`
	Demand           demandDTO            `yaml:"demand" validate:"required"`
	Freight          freightDTO           `yaml:"freight" validate:"required"`
	Overrides        overridesDTO         `yaml:"overrides"`
}

// Loader reads dataset files from disk.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a loader.
func NewLoader() *Loader {
	return &Loader{validate: validator.New()}
}

// Load reads the YAML master file, pulls in the CSV freight matrices named
// inside it (paths relative to the YAML's directory), and returns a fully
// cross-checked dataset.
func (l *Loader) Load(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var file datasetFileDTO
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if err := l.validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	inbound, err := readRateMatrix(filepath.Join(baseDir, file.Freight.InboundMatrix))
	if err != nil {
		return nil, err
	}
	outbound, err := readRateMatrix(filepath.Join(baseDir, file.Freight.OutboundMatrix))
	if err != nil {
		return nil, err
	}

	ds, err := buildDataset(&file, inbound, outbound)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// buildDataset converts the raw DTOs into the domain aggregate, rejecting
// references to materials, sites or ports that do not exist.
func buildDataset(file *datasetFileDTO, inbound, outbound map[string]map[string]float64) (*dataset.Dataset, error) {
	points := make([]dataset.CollectionPoint, 0, len(file.CollectionPoints))
	siteIDs := make(map[string]bool, len(file.CollectionPoints))
	for _, dto := range file.CollectionPoints {
		volumes := make(map[dataset.Material]float64, len(dto.Materials))
		prices := make(map[dataset.Material]float64, len(dto.Materials))
		for name, entry := range dto.Materials {
			m, err := dataset.ParseMaterial(name)
			if err != nil {
				return nil, shared.NewInconsistentDataError(dto.SiteID, err.Error())
			}
			volumes[m] = entry.VolumeTons
			prices[m] = entry.PricePerTon
		}
		points = append(points, dataset.CollectionPoint{
			SiteID:  dto.SiteID,
			Volumes: volumes,
			Prices:  prices,
		})
		siteIDs[dto.SiteID] = true
	}

	ports := make([]dataset.Port, 0, len(file.Ports))
	portIDs := make(map[string]bool, len(file.Ports))
	for _, dto := range file.Ports {
		ports = append(ports, dataset.Port{
			PortID:          dto.PortID,
			OperationalCost: dto.OperationalCost,
			SeaFreight:      dto.SeaFreight,
		})
		portIDs[dto.PortID] = true
	}

	demand, err := buildDemand(&file.Demand)
	if err != nil {
		return nil, err
	}

	for origin, lanes := range inbound {
		if !siteIDs[origin] {
			return nil, shared.NewInconsistentDataError("freight.inbound", fmt.Sprintf("unknown origin site %s", origin))
		}
		for to := range lanes {
			if !siteIDs[to] {
				return nil, shared.NewInconsistentDataError("freight.inbound", fmt.Sprintf("unknown destination site %s", to))
			}
		}
	}
	for origin, lanes := range outbound {
		if !siteIDs[origin] {
			return nil, shared.NewInconsistentDataError("freight.outbound", fmt.Sprintf("unknown origin site %s", origin))
		}
		for to := range lanes {
			if !portIDs[to] {
				return nil, shared.NewInconsistentDataError("freight.outbound", fmt.Sprintf("unknown port %s", to))
			}
		}
	}

	return &dataset.Dataset{
		Points: points,
		Ports:  ports,
		Freight: dataset.FreightRates{
			Inbound:       inbound,
			MaterialEFlat: file.Freight.MaterialEFlat,
			Outbound:      outbound,
		},
		Demand: demand,
		Overrides: dataset.Overrides{
			ForcedFacility: file.Overrides.ForcedFacility,
			ForcedPorts:    append([]string(nil), file.Overrides.ForcedPorts...),
		},
	}, nil
}

func buildDemand(dto *demandDTO) (dataset.DemandSpec, error) {
	yields := make(map[dataset.Material]float64, len(dto.YieldFactors))
	for name, y := range dto.YieldFactors {
		m, err := dataset.ParseMaterial(name)
		if err != nil {
			return dataset.DemandSpec{}, shared.NewInconsistentDataError("demand.yield_factors", err.Error())
		}
		yields[m] = y
	}
	shares := make(map[dataset.Material]float64, len(dto.MaxConsumptionShares))
	for name, s := range dto.MaxConsumptionShares {
		m, err := dataset.ParseMaterial(name)
		if err != nil {
			return dataset.DemandSpec{}, shared.NewInconsistentDataError("demand.max_consumption_shares", err.Error())
		}
		shares[m] = s
	}
	return dataset.DemandSpec{
		TargetTons:           dto.TargetTons,
		YieldFactors:         yields,
		MaxConsumptionShares: shares,
	}, nil
}
