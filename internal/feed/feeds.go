package feed

// providerFeeds returns the descriptors for the ten operations of the
// provider's open-data service. Field lists and key columns follow the
// provider's published response schemas; the traffic feeds carry one row per
// link and collection timestamp, so their reconciliation key is the pair.
func providerFeeds() []*Descriptor {
	text := func(names ...string) []Field {
		fields := make([]Field, len(names))
		for i, n := range names {
			fields[i] = Field{Name: n, Kind: KindText}
		}
		return fields
	}

	// Shared shape of the four per-link traffic feeds.
	trafficFields := func(extra ...Field) []Field {
		fields := []Field{
			{Name: "routeId", Kind: KindText},
			{Name: "routeNm", Kind: KindText},
			{Name: "routeWay", Kind: KindText},
			{Name: "routeSeq", Kind: KindInt},
			{Name: "linkId", Kind: KindText},
			{Name: "startNodeId", Kind: KindText},
			{Name: "startNodeNm", Kind: KindText},
			{Name: "endNodeId", Kind: KindText},
			{Name: "endNodeNm", Kind: KindText},
			{Name: "collDate", Kind: KindText},
			{Name: "spd", Kind: KindInt},
			{Name: "vol", Kind: KindInt},
			{Name: "trvlTime", Kind: KindInt},
		}
		return append(fields, extra...)
	}

	return []*Descriptor{
		{
			Name:  "getRoadInfoList",
			Table: "road_data.road_info_list",
			Fields: []Field{
				{Name: "routeId", Kind: KindText},
				{Name: "roadRank", Kind: KindText},
				{Name: "routeTp", Kind: KindText},
				{Name: "routeNo", Kind: KindText},
				{Name: "routeNm", Kind: KindText},
			},
			Key: []string{"routeId"},
		},
		{
			Name:  "getRoadLinkInfoList",
			Table: "road_data.road_link_info_list",
			Fields: []Field{
				{Name: "routeWay", Kind: KindText},
				{Name: "routeSeq", Kind: KindInt},
				{Name: "linkId", Kind: KindText},
				{Name: "startNodeId", Kind: KindText},
				{Name: "startNodeNm", Kind: KindText},
				{Name: "endNodeId", Kind: KindText},
				{Name: "endNodeNm", Kind: KindText},
				{Name: "linkLength", Kind: KindInt},
			},
			Key: []string{"linkId"},
		},
		{
			Name:  "getRoadTrafficInfoList",
			Table: "road_data.road_traffic_info_list",
			Fields: trafficFields(
				Field{Name: "linkDelayTime", Kind: KindInt},
				Field{Name: "congGrade", Kind: KindText},
			),
			Key: []string{"linkId", "collDate"},
		},
		{
			Name:  "getRoadLinkTrafficInfoList",
			Table: "road_data.road_link_traffic_info_list",
			Fields: trafficFields(
				Field{Name: "linkDelayTime", Kind: KindInt},
				Field{Name: "congGrade", Kind: KindText},
			),
			Key: []string{"linkId", "collDate"},
		},
		{
			Name:  "getRoadLinkTrafficInfo",
			Table: "road_data.road_link_traffic_info",
			Fields: trafficFields(
				Field{Name: "linkDelayTime", Kind: KindInt},
				Field{Name: "congGrade", Kind: KindText},
			),
			Key: []string{"linkId", "collDate"},
		},
		{
			Name:   "getRoadLinkCongestInfo",
			Table:  "road_data.road_link_congest_info",
			Fields: trafficFields(),
			Key:    []string{"linkId", "collDate"},
		},
		{
			Name:  "getIncidentInfo",
			Table: "road_data.incident_info",
			Fields: []Field{
				{Name: "routeId", Kind: KindText},
				{Name: "linkId", Kind: KindText},
				{Name: "spotId", Kind: KindText},
				{Name: "regSeq", Kind: KindInt},
				{Name: "confirmDate", Kind: KindText},
				{Name: "startDate", Kind: KindText},
				{Name: "estEndDate", Kind: KindText},
				{Name: "endDate", Kind: KindText},
				{Name: "restrictType", Kind: KindText},
				{Name: "inciDesc", Kind: KindText},
				{Name: "inciplace1", Kind: KindText},
				{Name: "inciplace2", Kind: KindText},
				{Name: "coord_x", Kind: KindText},
				{Name: "coord_y", Kind: KindText},
			},
			Key: []string{"regSeq"},
		},
		{
			Name:  "getParkingPlaceInfoList",
			Table: "road_data.parking_place_info_list",
			Fields: text(
				"laeId", "laeNm", "pkplcId", "pkplcNm", "pkplcDivNm", "pkplcTypeNm",
				"latCrdn", "lonCrdn", "roadNmZip", "roadNmAddr", "lotnoAddr",
				"pklotCnt", "sbcmpctPklotCnt", "pwdbsPrvusePklotCnt",
				"femalePrfncPklotCnt", "olmanPrfncPklotCnt", "evPklotCnt",
				"lndlvDivNm", "wkdayOprtStartTime", "wkdayOprtEndTime",
				"satOprtStartTime", "satOprtEndTime", "hldyOprtStartTime",
				"hldyOprtEndTime", "parkingBscTime", "parkingBscFare",
				"addUnitTime", "addUnitFare", "ddPktckFareAplcnTime",
				"ddPktckFare", "mmCmmtktFare",
			),
			Key: []string{"laeId", "pkplcId"},
		},
		{
			Name:  "getParkingPlaceAvailabilityInfoList",
			Table: "road_data.parking_place_availability_info_list",
			Fields: []Field{
				{Name: "laeId", Kind: KindText},
				{Name: "laeNm", Kind: KindText},
				{Name: "pkplcId", Kind: KindText},
				{Name: "pkplcNm", Kind: KindText},
				{Name: "pklotCnt", Kind: KindInt},
				{Name: "avblPklotCnt", Kind: KindInt},
				{Name: "ocrnDt", Kind: KindText},
			},
			Key: []string{"laeId", "pkplcId"},
		},
		{
			Name:   "associatedParkingPlaceInfoList",
			Table:  "road_data.associated_parking_place_info_list",
			Fields: text("laeId", "laeNm"),
			Key:    []string{"laeId"},
		},
	}
}
