//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// CurrentConfiguration - everything the launch layer hands to the notebooks and the review server
type CurrentConfiguration struct {
	ProjectDir       string
	RawDataDir       string
	NotebookDir      string
	Topics           []string
	StopwordsDir     string
	StopwordsURL     string
	StopwordsLang    string
	NumSamples       int
	NClusters        int
	RandomState      int
	ShuffleSeed      int
	NumDocsToRead    int
	ReadOrder        []int
	ParamGrid        map[string][]any
	TextColumn       string
	RemoveNum        bool
	MinLen           int
	MaxLen           int
	KeepIntermediate bool
	SkipRetrieve     bool
	SkipCluster      bool
	LogLevel         int
	BlackAndWhite    bool
	WorkerCount      int
	Serve            bool
	ServeOnly        bool
	HostIP           string
	HostPort         int
	EchoLog          int // 0: "none", 1: "terse", 2: "prolix", 3: "prolix+remoteip"
	Gzip             bool
	LedgerPath       string
	ProfileCPU       bool
	ProfileMEM       bool
	PGLogin          PostgresLogin
}
