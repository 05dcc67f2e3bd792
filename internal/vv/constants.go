//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "Text Clustering Laboratory"
	SHORTNAME = "TCL"
	VERSION   = "0.3.1"

	BLACKANDWHITE  = false
	CONFIGALTAPTH  = "%s/.config/" // %s = os.UserHomeDir()
	CONFIGPROLIX   = "tcl-prolix-conf.json"
	CONFIGSCHEMAID = "tcl://schema/config.json"
	JSONINDENT     = "  "
	WRITEPERMS     = 0644
	DIRPERMS       = 0755

	// papermill_runner defaults
	DEFAULTGOLOGLEVEL   = 2
	DEFAULTECHOLOGLEVEL = 0
	DEFAULTTOPICS       = "biology,cooking,crypto,diy,robotics,travel"
	RAWDATADIR          = "data/raw"
	NOTEBOOKDIR         = "executed_notebooks"
	PARQUETNAME         = "text_clustering_data.parquet.gzip"
	ZIPSUFFIX           = ".csv.zip"
	CSVSUFFIX           = ".csv"
	NBGETDATA           = "01_get_data.ipynb"
	NBEDA               = "02_eda.ipynb"
	NBTIMEFMT           = "20060102-150405"
	LEDGERNAME          = "tcl-ledger.db"

	// stopwords
	STOPWORDSALTPATH = "%s/nltk_data/corpora/stopwords" // %s = os.UserHomeDir()
	STOPWORDSURL     = "https://raw.githubusercontent.com/nltk/nltk_data/gh-pages/packages/corpora/stopwords.zip"
	STOPWORDSLANG    = "english"
	DOWNLOADTIMEOUT  = 90 * time.Second

	// experiment defaults
	NUMSAMPLES      = 86000
	NCLUSTERS       = 6
	KMEANSSEED      = 42
	KMEANSMAXITER   = 300
	KMEANSNINIT     = 10
	KMEANSTOL       = 1e-4
	NUMDOCSTOREAD   = 5
	NUMTOPTERMS     = 10
	SHUFFLESEED     = 42
	TEXTCOLUMN      = "content"
	MAXPLOTPOINTS   = 3000
	DEFAULTCHRTWDTH = "1200px"
	DEFAULTCHRTHGHT = "800px"

	// review server
	SERVEDFROMHOST = "127.0.0.1"
	SERVEDFROMPORT = 8010
	USEGZIP        = false
	TIMEOUTRD      = 15 * time.Second
	TIMEOUTWR      = 60 * time.Second

	// export
	DEFAULTPSQLHOST = "127.0.0.1"
	DEFAULTPSQLUSER = "tcl_wr"
	DEFAULTPSQLPORT = 5432
	DEFAULTPSQLDB   = "textclusterlab"
)
