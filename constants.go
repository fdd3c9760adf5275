package client

import "time"

const (
	ServiceName         = "aip"
	DefaultBaseURL      = "https://aip.baidubce.com"
	DefaultTimeout      = 60 * time.Second
	ProcessingTimeout   = 5 * time.Minute
	DefaultPollInterval = 2 * time.Second
	APIVersion          = "2.0"
	TraceIDHeader       = "X-Trace-Id"
	AccessTokenParam    = "access_token"
)

// Field names shared by most recognition endpoints.
const (
	FieldImage      = "image"
	FieldURL        = "url"
	FieldPDFFile    = "pdf_file"
	FieldPDFFileNum = "pdf_file_num"
	FieldRequestID  = "request_id"
	FieldResultType = "result_type"
	FieldTaskID     = "taskId"
)

// Remote error codes that signal a stale access token.
const (
	CodeInvalidToken = 110
	CodeExpiredToken = 111
)

// AsyncTaskStatusFinished is the ret_code reported by table recognition once the result is ready.
const AsyncTaskStatusFinished = 3

// ResultType selects how a finished table recognition job is rendered.
type ResultType string

const (
	ResultTypeJSON  ResultType = "json"
	ResultTypeExcel ResultType = "excel"
)

// OAuth
const (
	EndpointToken = "/oauth/2.0/token"
)

// OCR endpoints
const (
	ocrPrefix = "/rest/" + APIVersion + "/ocr/v1/"

	EndpointGeneralBasic        = ocrPrefix + "general_basic"
	EndpointAccurateBasic       = ocrPrefix + "accurate_basic"
	EndpointGeneral             = ocrPrefix + "general"
	EndpointAccurate            = ocrPrefix + "accurate"
	EndpointGeneralEnhanced     = ocrPrefix + "general_enhanced"
	EndpointWebImage            = ocrPrefix + "webimage"
	EndpointWebImageLoc         = ocrPrefix + "webimage_loc"
	EndpointIDCard              = ocrPrefix + "idcard"
	EndpointMultiIDCard         = ocrPrefix + "multi_idcard"
	EndpointBankCard            = ocrPrefix + "bankcard"
	EndpointDrivingLicense      = ocrPrefix + "driving_license"
	EndpointVehicleLicense      = ocrPrefix + "vehicle_license"
	EndpointLicensePlate        = ocrPrefix + "license_plate"
	EndpointBusinessLicense     = ocrPrefix + "business_license"
	EndpointReceipt             = ocrPrefix + "receipt"
	EndpointTrainTicket         = ocrPrefix + "train_ticket"
	EndpointTaxiReceipt         = ocrPrefix + "taxi_receipt"
	EndpointForm                = ocrPrefix + "form"
	EndpointVINCode             = ocrPrefix + "vin_code"
	EndpointQuotaInvoice        = ocrPrefix + "quota_invoice"
	EndpointHouseholdRegister   = ocrPrefix + "household_register"
	EndpointHKMacauExitEntry    = ocrPrefix + "HK_Macau_exitentrypermit"
	EndpointTaiwanExitEntry     = ocrPrefix + "taiwan_exitentrypermit"
	EndpointBirthCertificate    = ocrPrefix + "birth_certificate"
	EndpointVehicleInvoice      = ocrPrefix + "vehicle_invoice"
	EndpointVehicleCertificate  = ocrPrefix + "vehicle_certificate"
	EndpointInvoice             = ocrPrefix + "invoice"
	EndpointAirTicket           = ocrPrefix + "air_ticket"
	EndpointInsuranceDocuments  = ocrPrefix + "insurance_documents"
	EndpointVATInvoice          = ocrPrefix + "vat_invoice"
	EndpointVATInvoiceVerify    = ocrPrefix + "vat_invoice_verification"
	EndpointQRCode              = ocrPrefix + "qrcode"
	EndpointNumbers             = ocrPrefix + "numbers"
	EndpointLottery             = ocrPrefix + "lottery"
	EndpointPassport            = ocrPrefix + "passport"
	EndpointBusinessCard        = ocrPrefix + "business_card"
	EndpointHandwriting         = ocrPrefix + "handwriting"
	EndpointDocAnalysis         = ocrPrefix + "doc_analysis"
	EndpointDocAnalysisOffice   = ocrPrefix + "doc_analysis_office"
	EndpointMeter               = ocrPrefix + "meter"
	EndpointWeightNote          = ocrPrefix + "weight_note"
	EndpointOnlineTaxiItinerary = ocrPrefix + "online_taxi_itinerary"
	EndpointMedicalDetail       = ocrPrefix + "medical_detail"
	EndpointMedicalInvoice      = ocrPrefix + "medical_invoice"
	EndpointSeal                = ocrPrefix + "seal"
	EndpointMixedMultiVehicle   = ocrPrefix + "mixed_multi_vehicle"
	EndpointVehicleRegistration = ocrPrefix + "vehicle_registration_certificate"
	EndpointMultipleInvoice     = ocrPrefix + "multiple_invoice"
	EndpointBusTicket           = ocrPrefix + "bus_ticket"
	EndpointFormula             = ocrPrefix + "formula"
	EndpointTravelCard          = ocrPrefix + "travel_card"
	EndpointFacade              = ocrPrefix + "facade"
	EndpointCustom              = "/rest/" + APIVersion + "/solution/v1/iocr/recognise"
	EndpointTableRecognize      = "/rest/" + APIVersion + "/solution/v1/form_ocr/request"
	EndpointTableResultGet      = "/rest/" + APIVersion + "/solution/v1/form_ocr/get_request_result"
)

// Image classification endpoints
const (
	classifyV1 = "/rest/" + APIVersion + "/image-classify/v1/"
	classifyV2 = "/rest/" + APIVersion + "/image-classify/v2/"

	EndpointAdvancedGeneral   = classifyV2 + "advanced_general"
	EndpointDishDetect        = classifyV2 + "dish"
	EndpointLogoSearch        = classifyV2 + "logo"
	EndpointCarDetect         = classifyV1 + "car"
	EndpointVehicleDetect     = classifyV1 + "vehicle_detect"
	EndpointVehicleDetectHigh = classifyV1 + "vehicle_detect_high"
	EndpointVehicleDamage     = classifyV1 + "vehicle_damage"
	EndpointVehicleAttr       = classifyV1 + "vehicle_attr"
	EndpointVehicleSeg        = classifyV1 + "vehicle_seg"
	EndpointTrafficFlow       = classifyV1 + "traffic_flow"
	EndpointAnimalDetect      = classifyV1 + "animal"
	EndpointPlantDetect       = classifyV1 + "plant"
	EndpointObjectDetect      = classifyV1 + "object_detect"
	EndpointMultiObjectDetect = classifyV1 + "multi_object_detect"
	EndpointLandmark          = classifyV1 + "landmark"
	EndpointFlower            = classifyV1 + "flower"
	EndpointIngredient        = classifyV1 + "classify/ingredient"
	EndpointRedwine           = classifyV1 + "redwine"
	EndpointCurrency          = classifyV1 + "currency"
	EndpointCustomDishAdd     = classifyV1 + "realtime_search/dish/add"
	EndpointCustomDishSearch  = classifyV1 + "realtime_search/dish/search"
	EndpointCustomDishDelete  = classifyV1 + "realtime_search/dish/delete"
	EndpointLogoAdd           = "/rest/" + APIVersion + "/realtime_search/v1/logo/add"
	EndpointLogoDelete        = "/rest/" + APIVersion + "/realtime_search/v1/logo/delete"
	EndpointCombination       = "/api/v1/solution/direct/imagerecognition/combination"
)

// Content censor endpoints
const (
	censorPrefix = "/rest/" + APIVersion + "/solution/v1/"

	EndpointCensorReport     = "/rpc/" + APIVersion + "/feedback/v1/report"
	EndpointCensorImage      = censorPrefix + "img_censor/v2/user_defined"
	EndpointCensorText       = censorPrefix + "text_censor/v2/user_defined"
	EndpointCensorVoice      = censorPrefix + "voice_censor/v3/user_defined"
	EndpointCensorVideo      = censorPrefix + "video_censor/v2/user_defined"
	EndpointLongVideoSubmit  = censorPrefix + "video_censor/v1/video/submit"
	EndpointLongVideoPull    = censorPrefix + "video_censor/v1/video/pull"
	EndpointAsyncVoiceSubmit = censorPrefix + "async_voice/submit"
	EndpointAsyncVoicePull   = censorPrefix + "async_voice/pull"
	EndpointLiveSave         = censorPrefix + "live/v1/config/save"
	EndpointLiveStop         = censorPrefix + "live/v1/config/stop"
	EndpointLiveView         = censorPrefix + "live/v1/config/view"
	EndpointLivePull         = censorPrefix + "live/v1/audit/pull"
)
