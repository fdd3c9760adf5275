package client

var defaultEndpoints = []Endpoint{
	// OCR
	{Name: "general_basic", Path: EndpointGeneralBasic, Inputs: InputImageURL},
	{Name: "accurate_basic", Path: EndpointAccurateBasic, Inputs: InputImage},
	{Name: "general", Path: EndpointGeneral, Inputs: InputImageURL},
	{Name: "accurate", Path: EndpointAccurate, Inputs: InputImage},
	{Name: "general_enhanced", Path: EndpointGeneralEnhanced, Inputs: InputImageURL},
	{Name: "webimage", Path: EndpointWebImage, Inputs: InputImageURL},
	{Name: "webimage_loc", Path: EndpointWebImageLoc, Inputs: InputImage},
	{Name: "idcard", Path: EndpointIDCard, Inputs: InputImage, Required: []string{"id_card_side"}},
	{Name: "multi_idcard", Path: EndpointMultiIDCard, Inputs: InputImageURL},
	{Name: "bankcard", Path: EndpointBankCard, Inputs: InputImage},
	{Name: "driving_license", Path: EndpointDrivingLicense, Inputs: InputImage},
	{Name: "vehicle_license", Path: EndpointVehicleLicense, Inputs: InputImage},
	{Name: "license_plate", Path: EndpointLicensePlate, Inputs: InputImage},
	{Name: "business_license", Path: EndpointBusinessLicense, Inputs: InputImage},
	{Name: "receipt", Path: EndpointReceipt, Inputs: InputImage},
	{Name: "train_ticket", Path: EndpointTrainTicket, Inputs: InputImageURL},
	{Name: "taxi_receipt", Path: EndpointTaxiReceipt, Inputs: InputImageURL},
	{Name: "form", Path: EndpointForm, Inputs: InputImage},
	{Name: "vin_code", Path: EndpointVINCode, Inputs: InputImageURL},
	{Name: "quota_invoice", Path: EndpointQuotaInvoice, Inputs: InputImage},
	{Name: "household_register", Path: EndpointHouseholdRegister, Inputs: InputImageURL},
	{Name: "hk_macau_exitentrypermit", Path: EndpointHKMacauExitEntry, Inputs: InputImage},
	{Name: "taiwan_exitentrypermit", Path: EndpointTaiwanExitEntry, Inputs: InputImage},
	{Name: "birth_certificate", Path: EndpointBirthCertificate, Inputs: InputImage},
	{Name: "vehicle_invoice", Path: EndpointVehicleInvoice, Inputs: InputImageURL},
	{Name: "vehicle_certificate", Path: EndpointVehicleCertificate, Inputs: InputImageURL},
	{Name: "invoice", Path: EndpointInvoice, Inputs: InputImageURL},
	{Name: "air_ticket", Path: EndpointAirTicket, Inputs: InputImageURL},
	{Name: "insurance_documents", Path: EndpointInsuranceDocuments, Inputs: InputImage},
	{Name: "vat_invoice", Path: EndpointVATInvoice, Inputs: InputDocument},
	{Name: "vat_invoice_verification", Path: EndpointVATInvoiceVerify, Inputs: InputNone,
		Required: []string{"invoice_code", "invoice_num", "invoice_date", "invoice_type", "check_code", "total_amount"}},
	{Name: "qrcode", Path: EndpointQRCode, Inputs: InputImageURL},
	{Name: "numbers", Path: EndpointNumbers, Inputs: InputImage},
	{Name: "lottery", Path: EndpointLottery, Inputs: InputImage},
	{Name: "passport", Path: EndpointPassport, Inputs: InputImageURL},
	{Name: "business_card", Path: EndpointBusinessCard, Inputs: InputImage},
	{Name: "handwriting", Path: EndpointHandwriting, Inputs: InputImageURL},
	{Name: "custom", Path: EndpointCustom, Inputs: InputImage},
	{Name: "doc_analysis", Path: EndpointDocAnalysis, Inputs: InputImageURL},
	{Name: "doc_analysis_office", Path: EndpointDocAnalysisOffice, Inputs: InputDocument},
	{Name: "meter", Path: EndpointMeter, Inputs: InputImage},
	{Name: "weight_note", Path: EndpointWeightNote, Inputs: InputDocument},
	{Name: "online_taxi_itinerary", Path: EndpointOnlineTaxiItinerary, Inputs: InputDocument},
	{Name: "medical_detail", Path: EndpointMedicalDetail, Inputs: InputImageURL},
	{Name: "medical_invoice", Path: EndpointMedicalInvoice, Inputs: InputImageURL},
	{Name: "seal", Path: EndpointSeal, Inputs: InputDocument},
	{Name: "mixed_multi_vehicle", Path: EndpointMixedMultiVehicle, Inputs: InputImageURL},
	{Name: "vehicle_registration_certificate", Path: EndpointVehicleRegistration, Inputs: InputImageURL},
	{Name: "multiple_invoice", Path: EndpointMultipleInvoice, Inputs: InputDocument},
	{Name: "bus_ticket", Path: EndpointBusTicket, Inputs: InputImageURL},
	{Name: "formula", Path: EndpointFormula, Inputs: InputImageURL},
	{Name: "travel_card", Path: EndpointTravelCard, Inputs: InputImage},
	{Name: "facade", Path: EndpointFacade, Inputs: InputImage},
	{Name: "table_recognize", Path: EndpointTableRecognize, Inputs: InputImage},
	{Name: "table_result_get", Path: EndpointTableResultGet, Inputs: InputNone, Required: []string{FieldRequestID}},

	// Image classification
	{Name: "advanced_general", Path: EndpointAdvancedGeneral, Inputs: InputImage},
	{Name: "dish_detect", Path: EndpointDishDetect, Inputs: InputImage},
	{Name: "car_detect", Path: EndpointCarDetect, Inputs: InputImageURL},
	{Name: "vehicle_detect", Path: EndpointVehicleDetect, Inputs: InputImageURL},
	{Name: "vehicle_detect_high", Path: EndpointVehicleDetectHigh, Inputs: InputImageURL},
	{Name: "vehicle_damage", Path: EndpointVehicleDamage, Inputs: InputImage},
	{Name: "vehicle_attr", Path: EndpointVehicleAttr, Inputs: InputImageURL},
	{Name: "vehicle_seg", Path: EndpointVehicleSeg, Inputs: InputImage},
	{Name: "traffic_flow", Path: EndpointTrafficFlow, Inputs: InputImageURL, Required: []string{"case_id", "case_init", "area"}},
	{Name: "logo_search", Path: EndpointLogoSearch, Inputs: InputImage},
	{Name: "logo_add", Path: EndpointLogoAdd, Inputs: InputImage, Required: []string{"brief"}},
	{Name: "logo_delete", Path: EndpointLogoDelete, Inputs: InputImage | InputNone},
	{Name: "animal_detect", Path: EndpointAnimalDetect, Inputs: InputImage},
	{Name: "plant_detect", Path: EndpointPlantDetect, Inputs: InputImage},
	{Name: "object_detect", Path: EndpointObjectDetect, Inputs: InputImage},
	{Name: "multi_object_detect", Path: EndpointMultiObjectDetect, Inputs: InputImage},
	{Name: "landmark", Path: EndpointLandmark, Inputs: InputImage},
	{Name: "flower", Path: EndpointFlower, Inputs: InputImage},
	{Name: "ingredient", Path: EndpointIngredient, Inputs: InputImage},
	{Name: "redwine", Path: EndpointRedwine, Inputs: InputImage},
	{Name: "currency", Path: EndpointCurrency, Inputs: InputImage},
	{Name: "custom_dish_add", Path: EndpointCustomDishAdd, Inputs: InputImage, Required: []string{"brief"}},
	{Name: "custom_dish_search", Path: EndpointCustomDishSearch, Inputs: InputImage},
	{Name: "custom_dish_delete", Path: EndpointCustomDishDelete, Inputs: InputImage | InputNone},
	{Name: "combination", Path: EndpointCombination, Inputs: InputImageURL, Encoding: EncodingJSON,
		URLField: "imgUrl", Required: []string{"scenes"}},

	// Content censor
	{Name: "censor_report", Path: EndpointCensorReport, Inputs: InputNone, Encoding: EncodingJSON, Required: []string{"feedback"}},
	{Name: "censor_image", Path: EndpointCensorImage, Inputs: InputImageURL, URLField: "imgUrl"},
	{Name: "censor_text", Path: EndpointCensorText, Inputs: InputNone, Required: []string{"text"}},
	{Name: "censor_voice", Path: EndpointCensorVoice, Inputs: InputImageURL, ImageField: "base64", Required: []string{"fmt", "rate"}},
	{Name: "censor_video", Path: EndpointCensorVideo, Inputs: InputURL, URLField: "videoUrl", Required: []string{"name", "extId"}},
	{Name: "long_video_submit", Path: EndpointLongVideoSubmit, Inputs: InputURL, Required: []string{"extId"}},
	{Name: "long_video_pull", Path: EndpointLongVideoPull, Inputs: InputNone, Required: []string{FieldTaskID}},
	{Name: "async_voice_submit", Path: EndpointAsyncVoiceSubmit, Inputs: InputURL, Required: []string{"fmt", "rate"}},
	{Name: "async_voice_pull", Path: EndpointAsyncVoicePull, Inputs: InputNone},
	{Name: "live_save", Path: EndpointLiveSave, Inputs: InputNone,
		Required: []string{"streamUrl", "streamType", "extId", "startTime", "endTime", "streamName"}},
	{Name: "live_stop", Path: EndpointLiveStop, Inputs: InputNone, Required: []string{FieldTaskID}},
	{Name: "live_view", Path: EndpointLiveView, Inputs: InputNone, Required: []string{FieldTaskID}},
	{Name: "live_pull", Path: EndpointLivePull, Inputs: InputNone, Required: []string{FieldTaskID}},
}

// DefaultCatalog returns the built-in endpoint table.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultEndpoints...)
	if err != nil {
		// the table is static; a failure here is a programming error
		panic(err)
	}
	return c
}
